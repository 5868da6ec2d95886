package models

// Device is a registered greenhouse node as listed by the /device endpoint.
type Device struct {
	Mac           string  `json:"mac"`
	Name          string  `json:"name"`
	OwnerID       *string `json:"ownerId"`
	OwnerUserName *string `json:"ownerUserName"`
}
