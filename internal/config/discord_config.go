package config

type DiscordConfig interface {
	GetDiscordToken() string
	GetDiscordApplicationID() string
	GetDiscordPublicKey() string
	GetDiscordGuildID() string
	GetDiscordRoleID() string
}

func (v Values) GetDiscordToken() string {
	return v.DiscordToken
}

func (v Values) GetDiscordApplicationID() string {
	return v.DiscordApplicationID
}

// GetDiscordPublicKey returns the hex encoded Ed25519 key used to verify interaction requests
func (v Values) GetDiscordPublicKey() string {
	return v.DiscordPublicKey
}

func (v Values) GetDiscordGuildID() string {
	return v.DiscordGuildID
}

func (v Values) GetDiscordRoleID() string {
	return v.DiscordRoleID
}
