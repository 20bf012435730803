package services

import (
	"testing"

	"github.com/clubworks/messaging/pkg/internal/models"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestResolveReplyWithoutTarget(t *testing.T) {
	message := models.Message{BaseModel: models.BaseModel{ID: 5}}
	assert.Nil(t, ResolveReply(message))
}

func TestResolveReplySelfReference(t *testing.T) {
	// A row pointing at itself should never happen, but the resolver
	// refuses it rather than trusting the data.
	message := models.Message{
		BaseModel: models.BaseModel{ID: 5},
		ReplyID:   lo.ToPtr(uint(5)),
	}
	assert.Nil(t, ResolveReply(message))
}
