package internal

type payloadKeyType struct{}

type accountKeyType struct{}

// PayloadKey stores the validated request body in a request context.
var PayloadKey = payloadKeyType{}

// AccountKey stores the authenticated account in a request context.
var AccountKey = accountKeyType{}
