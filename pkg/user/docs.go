package user

import (
	"github.com/localhive/event-catalog/pkg/model"
	"github.com/localhive/event-catalog/pkg/token"
)

// swagger:parameters signUp
type _ struct {
	// SignUp request body parameter
	// in: body
	// required: true
	Body signUpRequest
}

// swagger:parameters validateEmail
type _ struct {
	// Email validation token
	// in: path
	// required: true
	Token string `json:"token"`
}

// swagger:parameters refreshToken
type _ struct {
	// Refresh token request body parameter. Note that this is optional and the refresh token can also be supplied using a cookie named "refreshToken"
	// in: body
	// required: false
	Body RefreshTokenRequest
}

// swagger:response Tokens
type _ struct {
	//in: body
	_ token.Tokens
}

// swagger:response User
type _ struct {
	//in: body
	_ model.User
}
