package blogtests

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogapp/blog-e2e-harness/apiactions"
	"github.com/blogapp/blog-e2e-harness/servicedef"
)

func DoAuthAPITests(t *T) {
	t.Describe("POST /api/auth/login", doLoginAPITests)
	t.Describe("POST /api/auth/register", doRegisterAPITests)
}

func doLoginAPITests(t *T) {
	t.Run("should successfully login with valid credentials", func(t *T) {
		a := t.APIActions()
		valid := t.TestData().Login.LoginValid
		resp, err := a.Post("/api/auth/login", valid)
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 200)
		a.VerifyResponseHeaders(t, resp, apiactions.HeaderNames{"content-type"})
		a.VerifyResponseBodyFields(t, resp, "token", "user", "user.id", "user.username", "user.createdAt")

		body := apiactions.RequireResponseJSON[servicedef.AuthResponse](t, resp)
		assert.NotEmpty(t, body.Token)
		assert.Equal(t, valid.Username, body.User.Username)
	})

	t.Run("should fail login with invalid password", func(t *T) {
		a := t.APIActions()
		resp, err := a.Post("/api/auth/login", t.TestData().Login.LoginInvalid)
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 401)
		a.VerifyResponseBodyFields(t, resp, "error")
		requireErrorMessage(t, resp, "Invalid credentials")
	})

	t.Run("should fail login with missing username", func(t *T) {
		a := t.APIActions()
		resp, err := a.Post("/api/auth/login", servicedef.Credentials{Password: "test123"})
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 400)
		a.VerifyResponseBodyFields(t, resp, "error")
		requireErrorMessage(t, resp, "Username and password are required")
	})

	t.Run("should fail login with missing password", func(t *T) {
		a := t.APIActions()
		resp, err := a.Post("/api/auth/login", servicedef.Credentials{Username: "testuser"})
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 400)
		a.VerifyResponseBodyFields(t, resp, "error")
		requireErrorMessage(t, resp, "Username and password are required")
	})

	t.Run("should fail login with non-existent user", func(t *T) {
		a := t.APIActions()
		resp, err := a.Post("/api/auth/login", servicedef.Credentials{
			Username: "nonexistentuser12345",
			Password: "password123",
		})
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 401)
		a.VerifyResponseBodyFields(t, resp, "error")
	})
}

func doRegisterAPITests(t *T) {
	t.Run("should successfully register a new user", func(t *T) {
		a := t.APIActions()
		newUser := servicedef.Credentials{Username: "testuser_" + uniqueSuffix(), Password: "testpass123"}
		resp, err := a.Post("/api/auth/register", newUser)
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 201)
		a.VerifyResponseBodyFields(t, resp, "token", "user", "user.id", "user.username", "user.createdAt")

		body := apiactions.RequireResponseJSON[servicedef.AuthResponse](t, resp)
		assert.NotEmpty(t, body.Token)
		assert.Equal(t, newUser.Username, body.User.Username)
	})

	t.Run("should fail registration with existing username", func(t *T) {
		a := t.APIActions()
		resp, err := a.Post("/api/auth/register", t.TestData().Login.LoginValid)
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 409)
		a.VerifyResponseBodyFields(t, resp, "error")
		requireErrorMessage(t, resp, "Username already exists")
	})

	t.Run("should fail registration with password less than 6 characters", func(t *T) {
		a := t.APIActions()
		resp, err := a.Post("/api/auth/register", t.TestData().Login.RegisterInvalid)
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 400)
		a.VerifyResponseBodyFields(t, resp, "error")
		requireErrorMessage(t, resp, "Password must be at least 6 characters")
	})

	t.Run("should fail registration with missing username", func(t *T) {
		a := t.APIActions()
		resp, err := a.Post("/api/auth/register", servicedef.Credentials{Password: "password123"})
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 400)
		a.VerifyResponseBodyFields(t, resp, "error")
		requireErrorMessage(t, resp, "Username and password are required")
	})

	t.Run("should fail registration with missing password", func(t *T) {
		a := t.APIActions()
		resp, err := a.Post("/api/auth/register", servicedef.Credentials{Username: "newuser"})
		require.NoError(t, err)

		a.VerifyStatusCode(t, resp, 400)
		a.VerifyResponseBodyFields(t, resp, "error")
		requireErrorMessage(t, resp, "Username and password are required")
	})
}
