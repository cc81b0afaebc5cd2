package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/hoststack/console/internal/cli"
	"github.com/hoststack/console/internal/core/domain"
	"github.com/hoststack/console/internal/core/ports"
	"github.com/hoststack/console/internal/infrastructure/oauth"
)

var (
	flagEmail    string
	flagPassword string
	flagGoogle   bool
	flagName     string
	flagConfirm  string
	flagCode     string
)

const googleLoginTimeout = 5 * time.Minute

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session credential",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagGoogle {
			return googleLogin(cmd.Context())
		}

		form := cli.LoginForm{Email: flagEmail, Password: flagPassword}
		if err := cli.Validate(form); err != nil {
			return err
		}

		result, err := app.identity.Login(cmd.Context(), scope(), form.Email, form.Password)
		switch {
		case errors.Is(err, domain.ErrUnverified):
			return fmt.Errorf("account not verified — check your inbox and run `console verify-otp --email %s --code <code>`", form.Email)
		case errors.Is(err, domain.ErrUnauthorized):
			return errors.New("invalid email or password")
		case err != nil:
			return err
		}

		app.sessions.SetAuth(result.Token, result.Principal)
		fmt.Printf("Signed in as %s (%s)\n", result.Principal.Email, result.Principal.Role)
		return nil
	},
}

// googleLogin runs the loopback flow: the browser completes Google
// sign-in and posts the credential back to a localhost callback.
func googleLogin(ctx context.Context) error {
	if scope() == domain.ScopeAdmin {
		return errors.New("google sign-in is not available for admin sessions")
	}

	listener, err := oauth.NewListener(app.log)
	if err != nil {
		return err
	}
	listener.Start()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		listener.Shutdown(shutdownCtx)
	}()

	fmt.Println("Complete Google sign-in in your browser.")
	fmt.Println("Callback listening at:", listener.CallbackURL())

	waitCtx, cancel := context.WithTimeout(ctx, googleLoginTimeout)
	defer cancel()

	credential, err := listener.Wait(waitCtx)
	if err != nil {
		return fmt.Errorf("waiting for google credential: %w", err)
	}

	result, err := app.identity.GoogleAuth(ctx, credential)
	if err != nil {
		return err
	}

	app.sessions.SetAuth(result.Token, result.Principal)
	fmt.Printf("Signed in as %s\n", result.Principal.Email)
	return nil
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		form := cli.RegisterForm{
			Name:            flagName,
			Email:           flagEmail,
			Password:        flagPassword,
			ConfirmPassword: flagConfirm,
		}
		if err := cli.Validate(form); err != nil {
			return err
		}

		result, err := app.identity.Register(cmd.Context(), ports.RegisterInput{
			Name:     form.Name,
			Email:    form.Email,
			Password: form.Password,
		})
		switch {
		case errors.Is(err, domain.ErrConflict):
			return fmt.Errorf("an account with %s already exists", form.Email)
		case err != nil:
			return err
		}

		// Registration auto-signs-in when the server returns a token;
		// otherwise the account still needs OTP verification.
		if result.Token != "" {
			app.sessions.SetAuth(result.Token, result.Principal)
			fmt.Printf("Account created; signed in as %s\n", result.Principal.Email)
			return nil
		}
		fmt.Printf("Account created. Verify it with `console verify-otp --email %s --code <code>`\n", form.Email)
		return nil
	},
}

var verifyOTPCmd = &cobra.Command{
	Use:   "verify-otp",
	Short: "Verify an account with the emailed one-time code",
	RunE: func(cmd *cobra.Command, args []string) error {
		form := cli.OTPForm{Email: flagEmail, Code: flagCode}
		if err := cli.Validate(form); err != nil {
			return err
		}

		result, err := app.identity.VerifyOTP(cmd.Context(), form.Email, form.Code)
		if err != nil {
			return err
		}

		app.sessions.SetAuth(result.Token, result.Principal)
		fmt.Printf("Verified; signed in as %s\n", result.Principal.Email)
		return nil
	},
}

var resendOTPCmd = &cobra.Command{
	Use:   "resend-otp",
	Short: "Request a fresh verification code",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagEmail == "" {
			return errors.New("email is required")
		}
		if err := app.identity.ResendOTP(cmd.Context(), flagEmail); err != nil {
			return err
		}
		fmt.Println("Verification code sent to", flagEmail)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and purge the stored credential",
	RunE: func(cmd *cobra.Command, args []string) error {
		app.sessions.Logout()
		fmt.Println("Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in principal",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(cmd.Context(), "/dashboard"); err != nil {
			return err
		}

		principal := app.sessions.Principal()
		fmt.Printf("%s <%s> role=%s scope=%s\n", principal.Name, principal.Email, principal.Role, scope())

		if token, err := app.sessions.Token(cmd.Context()); err == nil {
			if exp, ok := tokenExpiry(token); ok {
				fmt.Println("token expires:", exp.Format(time.RFC3339))
			}
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check connectivity to the platform API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.rest.Health(cmd.Context()); err != nil {
			return fmt.Errorf("platform unreachable: %w", err)
		}
		fmt.Println("Platform API is up:", app.cfg.APIURL)
		return nil
	},
}

// tokenExpiry decodes the exp claim for display only. The token stays
// opaque to the session lifecycle: expiry is enforced by the server,
// never locally.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func init() {
	loginCmd.Flags().StringVar(&flagEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&flagPassword, "password", "", "account password")
	loginCmd.Flags().BoolVar(&flagGoogle, "google", false, "sign in with Google")

	registerCmd.Flags().StringVar(&flagName, "name", "", "display name")
	registerCmd.Flags().StringVar(&flagEmail, "email", "", "account email")
	registerCmd.Flags().StringVar(&flagPassword, "password", "", "account password")
	registerCmd.Flags().StringVar(&flagConfirm, "confirm-password", "", "repeat the password")

	verifyOTPCmd.Flags().StringVar(&flagEmail, "email", "", "account email")
	verifyOTPCmd.Flags().StringVar(&flagCode, "code", "", "6-digit verification code")

	resendOTPCmd.Flags().StringVar(&flagEmail, "email", "", "account email")
}
