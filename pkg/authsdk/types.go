package authsdk

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Username string `json:"username" example:"bob"`
	Password string `json:"password" example:"correct-horse"`
}

// TokenResponse carries a signed auth token. It is returned by both login
// and refresh.
type TokenResponse struct {
	AuthToken string `json:"authToken" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// CreateUserRequest is the body of POST /api/users.
type CreateUserRequest struct {
	Username string `json:"username" example:"bob"`
	Password string `json:"password" example:"correct-horse"`
	Fullname string `json:"fullname,omitempty" example:"Bob Smith"`
}

// User is the public view of an account.
type User struct {
	ID       string `json:"id" example:"01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV"`
	Username string `json:"username" example:"bob"`
	Fullname string `json:"fullname" example:"Bob Smith"`
}

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Code     int    `json:"code" example:"401"`
	Reason   string `json:"reason" example:"AuthenticationError"`
	Message  string `json:"message" example:"Unauthorized"`
	Location string `json:"location,omitempty" example:"password"`
}

// HealthResponse is returned by /livez and /readyz; only readyz fills Checks.
type HealthResponse struct {
	Status  string        `json:"status" example:"ok"`
	Uptime  string        `json:"uptime,omitempty" example:"1h23m45s"`
	Version string        `json:"version,omitempty" example:"v0.1.0"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of each dependency readyz probes.
type HealthChecks struct {
	Database string `json:"database" example:"ok"`
	Signer   string `json:"signer" example:"ok"`
}
