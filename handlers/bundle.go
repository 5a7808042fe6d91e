// File: nikahlink/handlers/bundle.go
package handlers

import (
	"nikahlink/services/user"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// UserService is also needed by the auth middleware to provision
	// accounts on first login.
	UserService user.UserService

	UserHandler       *UserHandler
	InvitationHandler *InvitationHandler
	PublicHandler     *PublicHandler
	UpgradeHandler    *UpgradeHandler
	AdminHandler      *AdminHandler
}
