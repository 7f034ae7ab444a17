package milkshake

// Version is overridden at build time with -ldflags "-X".
var Version = "0.1.0"

// UserAgent returns the User-Agent sent to the API.
func UserAgent() string {
	return "milkshake-cli/" + Version
}
