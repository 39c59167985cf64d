package version

// Current is the released version of tsnorm, without a "v" prefix.
var Current = "0.3.0"
