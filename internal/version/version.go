package version

// Version is the service version reported on the home route. Overridable at
// build time via -ldflags "-X cloudinary-gateway/internal/version.Version=...".
var Version = "1.0.0"
