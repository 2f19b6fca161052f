package types

// Version is the canonical project version, shared by the library and the
// diagnostic CLI.
const Version = "0.2.0"
