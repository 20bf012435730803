package models

// Role is the club-wide role carried by an account. It is a closed set:
// permission checks switch over these values instead of comparing raw
// role strings, so adding a role is a compile-visible change.
type Role = uint8

const (
	RoleMember = Role(iota)
	RoleCoordinator
	RoleCoCoordinator
	RoleSecretary
	RoleMedia
	RolePresident
	RoleVicePresident
	RoleInnovationHead
	RoleTreasurer
	RoleOutreach
)

// IsModeratorRole reports whether the role belongs to the committee class
// that may take moderation action on other members' content.
func IsModeratorRole(role Role) bool {
	switch role {
	case RoleCoordinator, RoleCoCoordinator, RoleSecretary, RoleMedia,
		RolePresident, RoleVicePresident, RoleInnovationHead,
		RoleTreasurer, RoleOutreach:
		return true
	default:
		return false
	}
}

// Account profiles are issued by the club's identity provider.
// We keep a local row for database relations only.
type Account struct {
	BaseModel

	Name   string  `json:"name"`
	Nick   string  `json:"nick"`
	Avatar *string `json:"avatar"`
	Role   Role    `json:"role"`

	Messages []Message    `json:"messages" gorm:"foreignKey:AuthorID"`
	Rooms    []RoomMember `json:"rooms" gorm:"foreignKey:AccountID"`
}
