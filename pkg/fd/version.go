package fd

// Version is the current version of the gofd propagation core.
const Version = "0.1.0"
