// Package creds reads broker credential material from the process
// environment, once, at construction.
package creds

import (
	"fmt"
	"os"
)

// Credentials holds the material needed to open a broker session.
// Values are read once and are immutable for the process lifetime.
type Credentials struct {
	UserID     string
	Password   string
	APIKey     string
	VendorKey  string
	IMEI       string
	TOTPSecret string
}

// FromEnv builds Credentials from the process environment.
func FromEnv() (Credentials, error) {
	c := Credentials{
		UserID:     os.Getenv("FINVASIA_ID"),
		Password:   os.Getenv("FINVASIA_PASSWORD"),
		APIKey:     os.Getenv("FINVASIA_API_KEY"),
		VendorKey:  os.Getenv("FINVASIA_VENDOR_KEY"),
		IMEI:       os.Getenv("FINVASIA_IMEI"),
		TOTPSecret: os.Getenv("FINVASIA_TOTP_SECRET"),
	}
	return c, c.validate()
}

func (c Credentials) validate() error {
	missing := ""
	switch {
	case c.UserID == "":
		missing = "FINVASIA_ID"
	case c.Password == "":
		missing = "FINVASIA_PASSWORD"
	case c.APIKey == "":
		missing = "FINVASIA_API_KEY"
	case c.VendorKey == "":
		missing = "FINVASIA_VENDOR_KEY"
	case c.IMEI == "":
		missing = "FINVASIA_IMEI"
	case c.TOTPSecret == "":
		missing = "FINVASIA_TOTP_SECRET"
	}
	if missing != "" {
		return fmt.Errorf("missing credential environment variable %s", missing)
	}
	return nil
}
