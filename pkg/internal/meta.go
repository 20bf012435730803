package pkg

const AppVersion = "1.2.0"
