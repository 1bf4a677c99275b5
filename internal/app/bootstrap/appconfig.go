// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig covers ports, TLS, logging and CORS. AppConfig holds
// what is specific to the impact service: the Mongo connection, the staff
// session cookie, site metadata shown in page chrome, and report sizing.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // e.g. mongodb://localhost:27017
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // signs session cookies; must be strong in production
	SessionName   string        // cookie name (default: onecup-session)
	SessionDomain string        // blank means current host
	SessionMaxAge time.Duration // cookie lifetime

	// Site metadata
	SiteName string

	// Impact report sizing
	TopLocations    int           // districts in the location chart
	RecentDonations int           // paid donations listed on the staff dashboard
	TimeoutLong     time.Duration // deadline for report builds and exports

	// Staff bootstrap: an existing account with this email is granted staff on startup.
	StaffEmail string
}
