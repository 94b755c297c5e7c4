package blogtests

import (
	"regexp"

	"github.com/stretchr/testify/require"
)

var adminURLPattern = regexp.MustCompile(`.*admin`)

func DoLoginPageTests(t *T) {
	t.BeforeEach(func(t *T) {
		require.NoError(t, t.LoginPage().Goto())
	})

	t.Describe("Login Form Testing", func(t *T) {
		t.Run("should display login page", func(t *T) {
			t.Expect(t.LoginPage().AdminHeading).ToBeVisible()
		})

		t.Run("should display login form", func(t *T) {
			login := t.LoginPage()
			t.Expect(login.UsernameInput).ToBeVisible()
			t.Expect(login.PasswordInput).ToBeVisible()
			t.Expect(login.LoginButton).ToBeVisible()
		})

		t.Run("should display register form", func(t *T) {
			login := t.LoginPage()
			require.NoError(t, t.Session().Resolve(login.RegisterTab).Click())
			t.Expect(login.UsernameInput).ToBeVisible()
			t.Expect(login.PasswordInput).ToBeVisible()
			t.Expect(login.RegisterButton).ToBeVisible()
		})
	})

	t.Describe("Login Testing", func(t *T) {
		t.Run("should login with valid credentials", func(t *T) {
			login := t.LoginPage()
			valid := t.TestData().Login.LoginValid
			require.NoError(t, login.Login(valid.Username, valid.Password))
			t.Expect(login.AdminHeading).ToHaveText("Blog Management")
			t.ExpectPage().ToHaveURL(adminURLPattern)
		})

		t.Run("should login with invalid credentials", func(t *T) {
			login := t.LoginPage()
			invalid := t.TestData().Login.LoginInvalid
			require.NoError(t, login.Login(invalid.Username, invalid.Password))
			t.Expect(login.ErrorMessage).ToHaveText("Invalid credentials")
		})
	})

	t.Describe("Register Testing", func(t *T) {
		t.Run("should handle registration scenarios", func(t *T) {
			login := t.LoginPage()
			username := "user_" + uniqueSuffix()
			password := "pw_" + uniqueSuffix()

			t.Step("register with valid credentials", func() {
				require.NoError(t, login.Register(username, password))
				t.Expect(login.AdminHeading).ToHaveText("Blog Management")
				t.ExpectPage().ToHaveURL(adminURLPattern)
				require.NoError(t, t.HomePage().Logout())
			})

			t.Step("register with same username", func() {
				require.NoError(t, login.Goto())
				require.NoError(t, login.Register(username, password))
				t.Expect(login.ErrorMessage).ToHaveText("Username already exists")
			})
		})

		t.Run("should register with invalid credentials", func(t *T) {
			login := t.LoginPage()
			invalid := t.TestData().Login.RegisterInvalid
			require.NoError(t, login.Register(invalid.Username, invalid.Password))
			t.Expect(login.ErrorMessage).ToHaveText("Password must be at least 6 characters")
		})
	})
}
