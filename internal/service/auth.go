package service

import (
	"context"
	"fmt"
	"log"
	"net"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"gamevault-api/internal/config"
	"gamevault-api/internal/model"
	"gamevault-api/internal/repository"
	"gamevault-api/pkg/apierror"
)

var emailRegex = regexp.MustCompile(`(?i)^[a-z0-9._%+-]+@[a-z0-9-]+\.[a-z]{2,}$`)

// genericCodeSentMsg is returned for existing and non-existing accounts alike
// so the endpoint cannot be used to enumerate registered emails.
const genericCodeSentMsg = "If this email exists, a code was sent."

// ReasonNotVerified tags the forgot-password response that redirected into
// the email-verification path.
const ReasonNotVerified = "NOT_VERIFIED"

// TokenClaims is what a parsed session token asserts.
type TokenClaims struct {
	UserID primitive.ObjectID
	Email  string
}

// SafeUser is the account shape returned to clients: no hash, no role, no
// OTP state.
type SafeUser struct {
	ID         primitive.ObjectID `json:"_id"`
	Name       string             `json:"name"`
	Email      string             `json:"email"`
	IsVerified bool               `json:"isVerified"`
}

// LoginResult bundles the sanitized user with a session token.
type LoginResult struct {
	User  SafeUser `json:"user"`
	Token string   `json:"token"`
}

// AuthService implements registration, login and the two OTP lifecycles
// (email verification, password reset). All OTP state lives in the user
// document; nothing is held in process memory between requests.
type AuthService struct {
	users repository.UserRepository
	email EmailSender

	otpCfg    config.OTPConfig
	jwtSecret []byte
	tokenTTL  time.Duration

	// checkEmailDomain optionally rejects addresses whose domain cannot
	// receive mail. Nil skips the check (tests, offline development).
	checkEmailDomain func(email string) bool

	now func() time.Time
}

// NewAuthService creates an auth service.
func NewAuthService(users repository.UserRepository, email EmailSender, otpCfg config.OTPConfig, authCfg config.AuthConfig) *AuthService {
	return &AuthService{
		users:     users,
		email:     email,
		otpCfg:    otpCfg,
		jwtSecret: []byte(authCfg.JWTSecret),
		tokenTTL:  authCfg.TokenTTL,
		now:       time.Now,
	}
}

// EnableMXCheck turns on DNS MX validation of registration email domains.
func (a *AuthService) EnableMXCheck() {
	a.checkEmailDomain = HasMXRecord
}

// HasMXRecord reports whether the email's domain publishes an MX record.
func HasMXRecord(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	mx, err := net.LookupMX(email[at+1:])
	return err == nil && len(mx) > 0
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validatePassword enforces the minimum password policy: at least 8
// characters with at least one letter and one digit.
func validatePassword(password string) *apierror.Error {
	if len(password) < 8 {
		return apierror.BadRequest("Password must be at least 8 characters")
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return apierror.BadRequest("Password must contain at least one letter and one digit")
	}
	return nil
}

// Register creates an unverified account and sends the first verification
// code. A mail failure does not roll the account back: the resend endpoint
// is the escape hatch.
func (a *AuthService) Register(ctx context.Context, name, email, password string) (string, error) {
	email = normalizeEmail(email)
	if !emailRegex.MatchString(email) {
		return "", apierror.BadRequest("Invalid email format")
	}
	if a.checkEmailDomain != nil && !a.checkEmailDomain(email) {
		return "", apierror.BadRequest("Email domain is not valid")
	}
	if err := validatePassword(password); err != nil {
		return "", err
	}

	existing, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", apierror.Conflict("Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
		IsVerified:   false,
	}

	code, err := issueOTP(&user.EmailVerify, a.otpCfg.VerifyTTL, a.now())
	if err != nil {
		return "", err
	}

	if err := a.users.Create(ctx, user); err != nil {
		if err == repository.ErrDuplicate {
			return "", apierror.Conflict("Email already registered")
		}
		return "", err
	}

	if err := a.email.SendVerificationCode(email, code); err != nil {
		log.Printf("[AuthService] Verification email send failed: %v", err)
		return "Registered successfully, but we could not send email right now. Please use 'Resend code' in a moment.", nil
	}
	return "Registered successfully. Check your email for the verification code.", nil
}

// VerifyEmail consumes a verification code. A consumed generation is nulled
// out and cannot be replayed.
func (a *AuthService) VerifyEmail(ctx context.Context, email, code string) (string, error) {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return "", apierror.BadRequest("Email and code are required")
	}

	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", apierror.BadRequest("Invalid code")
	}
	if user.IsVerified {
		return "Already verified", nil
	}

	switch checkOTP(&user.EmailVerify, code, a.otpCfg.MaxAttempts, a.now()) {
	case otpExpired:
		return "", apierror.BadRequest("Code expired")
	case otpLocked:
		return "", apierror.TooManyRequests("Too many attempts. Please request a new code.")
	case otpMismatch:
		if err := a.users.Update(ctx, user); err != nil {
			return "", err
		}
		return "", apierror.BadRequest("Invalid code")
	}

	user.IsVerified = true
	if err := a.users.Update(ctx, user); err != nil {
		return "", err
	}
	return "Email verified successfully", nil
}

// ResendVerification issues a fresh verification code, subject to the resend
// cooldown. The response never reveals whether the email is registered.
func (a *AuthService) ResendVerification(ctx context.Context, email string) (string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return "", apierror.BadRequest("Email required")
	}

	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return genericCodeSentMsg, nil
	}
	if user.IsVerified {
		return "Already verified", nil
	}

	if remaining := cooldownRemaining(&user.EmailVerify, a.otpCfg.ResendCooldown, a.now()); remaining > 0 {
		return "", apierror.TooManyRequests(waitMessage(remaining))
	}

	code, err := issueOTP(&user.EmailVerify, a.otpCfg.VerifyTTL, a.now())
	if err != nil {
		return "", err
	}
	if err := a.users.Update(ctx, user); err != nil {
		return "", err
	}

	if err := a.email.SendVerificationCode(email, code); err != nil {
		log.Printf("[AuthService] Resend verification email failed: %v", err)
		return "We generated a new code, but email could not be sent right now. Please try again shortly.", nil
	}
	return "Verification code resent", nil
}

// ForgotPassword starts the reset flow. For unverified accounts it redirects
// into the email-verification path instead, tagged with ReasonNotVerified so
// the client can route the user to the verify screen. For everything else
// the response is enumeration-safe.
func (a *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return "", apierror.BadRequest("Email required")
	}

	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return genericCodeSentMsg, nil
	}

	if !user.IsVerified {
		if remaining := cooldownRemaining(&user.EmailVerify, a.otpCfg.ResendCooldown, a.now()); remaining > 0 {
			return "", notVerifiedError(fmt.Sprintf("Your email is not verified. Please wait %ds then try again.", ceilSeconds(remaining)))
		}

		code, err := issueOTP(&user.EmailVerify, a.otpCfg.VerifyTTL, a.now())
		if err != nil {
			return "", err
		}
		if err := a.users.Update(ctx, user); err != nil {
			return "", err
		}
		if err := a.email.SendVerificationCode(email, code); err != nil {
			log.Printf("[AuthService] Verification email send failed: %v", err)
		}
		return "", notVerifiedError("Your email is not verified. Verification code sent again.")
	}

	// Within the reset cooldown the generic response is returned without a
	// new code, so the endpoint stays enumeration-safe.
	if remaining := cooldownRemaining(&user.ResetPassword, a.otpCfg.ResendCooldown, a.now()); remaining > 0 {
		return genericCodeSentMsg, nil
	}

	code, err := issueOTP(&user.ResetPassword, a.otpCfg.ResetTTL, a.now())
	if err != nil {
		return "", err
	}
	if err := a.users.Update(ctx, user); err != nil {
		return "", err
	}
	if err := a.email.SendResetCode(email, code); err != nil {
		log.Printf("[AuthService] Reset email send failed: %v", err)
	}
	return genericCodeSentMsg, nil
}

// ResetPassword consumes a reset code and replaces the password.
func (a *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) (string, error) {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" || newPassword == "" {
		return "", apierror.BadRequest("Email, code and newPassword are required")
	}
	if err := validatePassword(newPassword); err != nil {
		return "", err
	}

	const invalidMsg = "Invalid or expired reset code"

	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", apierror.BadRequest(invalidMsg)
	}

	switch checkOTP(&user.ResetPassword, code, a.otpCfg.MaxAttempts, a.now()) {
	case otpExpired:
		return "", apierror.BadRequest(invalidMsg)
	case otpLocked:
		return "", apierror.TooManyRequests("Too many attempts. Please request a new code.")
	case otpMismatch:
		if err := a.users.Update(ctx, user); err != nil {
			return "", err
		}
		return "", apierror.BadRequest(invalidMsg)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	if err := a.users.Update(ctx, user); err != nil {
		return "", err
	}
	return "Password reset successful. Please login.", nil
}

// Login authenticates a verified, non-admin account. Admin accounts get the
// same "invalid credentials" as a wrong password: the storefront login does
// not acknowledge them.
func (a *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	return a.login(ctx, email, password, model.RoleUser)
}

// AdminLogin authenticates an admin account for the back-office.
func (a *AuthService) AdminLogin(ctx context.Context, email, password string) (*LoginResult, error) {
	return a.login(ctx, email, password, model.RoleAdmin)
}

func (a *AuthService) login(ctx context.Context, email, password, wantRole string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apierror.BadRequest("Email and password required")
	}
	if !emailRegex.MatchString(email) {
		return nil, apierror.BadRequest("Invalid email format")
	}

	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apierror.Unauthorized("Invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, apierror.Unauthorized("Invalid credentials")
	}
	if !user.IsVerified {
		return nil, apierror.Forbidden("Please verify your email first")
	}
	if user.Role != wantRole {
		return nil, apierror.Unauthorized("Invalid credentials")
	}

	token, err := a.signToken(user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		User: SafeUser{
			ID:         user.ID,
			Name:       user.Name,
			Email:      user.Email,
			IsVerified: user.IsVerified,
		},
		Token: token,
	}, nil
}

func (a *AuthService) signToken(user *model.User) (string, error) {
	now := a.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.ID.Hex(),
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(a.tokenTTL).Unix(),
	})
	signed, err := t.SignedString(a.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a session token and returns its claims.
func (a *AuthService) ParseToken(tokenString string) (*TokenClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	sub, _ := claims["sub"].(string)
	userID, err := primitive.ObjectIDFromHex(sub)
	if err != nil {
		return nil, fmt.Errorf("invalid subject claim")
	}
	email, _ := claims["email"].(string)

	return &TokenClaims{UserID: userID, Email: email}, nil
}

// GetMe returns the sanitized account for userID.
func (a *AuthService) GetMe(ctx context.Context, userID primitive.ObjectID) (*SafeUser, error) {
	user, err := a.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apierror.Unauthorized("User not found")
	}
	return &SafeUser{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		IsVerified: user.IsVerified,
	}, nil
}

func notVerifiedError(message string) *apierror.Error {
	err := apierror.Forbidden(message)
	err.Code = ReasonNotVerified
	return err
}

func waitMessage(remaining time.Duration) string {
	return fmt.Sprintf("Please wait %ds before requesting another code.", ceilSeconds(remaining))
}

func ceilSeconds(d time.Duration) int {
	return int((d + time.Second - 1) / time.Second)
}
