package pathpolicy

// DevicePolicies restricts paths to device nodes, i.e. entries below /dev
// or /sys.
var DevicePolicies = NewPathPolicies(map[string]PathPolicy{
	"/":    {Deny: true},
	"/dev": {Below: true},
	"/sys": {Below: true},
})
