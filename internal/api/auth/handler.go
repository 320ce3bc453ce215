package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"contracts-app/config"
	"contracts-app/database"
	"contracts-app/internal/apperr"
	"contracts-app/internal/domain/users"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	trialDays         = 14
	verificationTTL   = 48 * time.Hour
	passwordResetTTL  = time.Hour
	sessionTTL        = 24 * time.Hour
	weakPasswordError = "Password must be at least 8 characters long and contain both letters and numbers"
)

func isPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter := false
	hasDigit := false
	for _, c := range password {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
			hasLetter = true
		case '0' <= c && c <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func isEmailValid(email string) bool {
	return emailPattern.MatchString(email)
}

func generateToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// issueToken stores a fresh single-use token of kind for userID, replacing
// older ones of the same kind.
func issueToken(userID uint, kind string, ttl time.Duration) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND type = ?", userID, kind).Delete(&users.VerificationToken{}).Error; err != nil {
			return err
		}
		return tx.Create(&users.VerificationToken{
			UserID:    userID,
			Token:     token,
			Type:      kind,
			ExpiresAt: time.Now().Add(ttl),
		}).Error
	})
	return token, err
}

func issueAppJWT(user users.User) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(sessionTTL).Unix(),
	})
	return t.SignedString([]byte(config.JWT_SECRET))
}

func Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Lastname string `json:"lastname" binding:"required"`
		Tel      string `json:"tel"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperr.Write(c, apperr.Invalid(err))
		return
	}

	email := normalizeEmail(input.Email)
	if !isPasswordStrong(input.Password) {
		apperr.Write(c, apperr.BadRequest("weak_password", weakPasswordError))
		return
	}
	if !isEmailValid(email) {
		apperr.Write(c, apperr.BadRequest("invalid_email", "Invalid email format"))
		return
	}

	var existing int64
	if err := database.DB.Model(&users.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		apperr.Write(c, err)
		return
	}
	if existing > 0 {
		apperr.Write(c, apperr.New(http.StatusConflict, "email_taken", "Email already registered"))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	hashed := string(hashedPassword)

	now := time.Now()
	trialEnd := now.AddDate(0, 0, trialDays)
	user := users.User{
		Name:         strings.TrimSpace(input.Name),
		Lastname:     strings.TrimSpace(input.Lastname),
		Tel:          input.Tel,
		Email:        email,
		Password:     &hashed,
		AuthProvider: "local",
		Role:         users.RoleUser,
		TrialStartAt: &now,
		TrialEndAt:   &trialEnd,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		apperr.Write(c, err)
		return
	}

	token, err := issueToken(user.ID, users.TokenEmailVerification, verificationTTL)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	if err := sendVerificationEmail(user.Email, token); err != nil {
		apperr.Write(c, apperr.Unavailable("Failed to send verification email"))
		return
	}

	log.Info("user registered", "user_id", user.ID)
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully. Please check your email to verify your account."})
}

func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperr.Write(c, apperr.Invalid(err))
		return
	}

	var user users.User
	if err := database.DB.Where("email = ?", normalizeEmail(input.Email)).First(&user).Error; err != nil {
		apperr.Write(c, apperr.Unauthorized("Invalid credentials"))
		return
	}
	if !user.IsVerified {
		apperr.Write(c, apperr.New(http.StatusForbidden, "not_verified", "Please verify your email before logging in"))
		return
	}
	if user.Password == nil || *user.Password == "" {
		apperr.Write(c, apperr.Unauthorized("This account uses Google sign-in"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(input.Password)); err != nil {
		apperr.Write(c, apperr.Unauthorized("Invalid credentials"))
		return
	}

	tokenString, err := issueAppJWT(user)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenString})
}

func ResendVerification(c *gin.Context) {
	var body struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apperr.Write(c, apperr.BadRequest("invalid_email", "Missing or invalid email"))
		return
	}

	var user users.User
	if err := database.DB.Where("email = ?", normalizeEmail(body.Email)).First(&user).Error; err != nil {
		apperr.Write(c, apperr.NotFound("User not found"))
		return
	}
	if user.IsVerified {
		apperr.Write(c, apperr.BadRequest("already_verified", "User already verified"))
		return
	}

	token, err := issueToken(user.ID, users.TokenEmailVerification, verificationTTL)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	if err := sendVerificationEmail(user.Email, token); err != nil {
		apperr.Write(c, apperr.Unavailable("Failed to send verification email"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification email resent"})
}

// VerifyEmail consumes a verification token and sends the browser to the
// sign-in page.
func VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		apperr.Write(c, apperr.BadRequest("missing_token", "Missing token"))
		return
	}

	var vt users.VerificationToken
	err := database.DB.Where("token = ? AND type = ?", token, users.TokenEmailVerification).First(&vt).Error
	if err != nil || vt.ExpiresAt.Before(time.Now()) {
		apperr.Write(c, apperr.BadRequest("invalid_token", "Invalid or expired token"))
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&users.User{}).Where("id = ?", vt.UserID).Update("is_verified", true).Error; err != nil {
			return err
		}
		return tx.Delete(&vt).Error
	})
	if err != nil {
		apperr.Write(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, config.APP_URL+"/signin")
}

func RequestPasswordReset(c *gin.Context) {
	var body struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apperr.Write(c, apperr.BadRequest("invalid_email", "Invalid email"))
		return
	}

	// same answer whether or not the email exists
	ok := gin.H{"message": "If your email exists, you'll receive a reset link."}

	var user users.User
	if err := database.DB.Where("email = ?", normalizeEmail(body.Email)).First(&user).Error; err != nil {
		c.JSON(http.StatusOK, ok)
		return
	}

	token, err := issueToken(user.ID, users.TokenPasswordReset, passwordResetTTL)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	if err := sendPasswordResetEmail(user.Email, token); err != nil {
		log.Warn("password reset mail failed", "user_id", user.ID, "err", err)
	}
	c.JSON(http.StatusOK, ok)
}

func ResetPassword(c *gin.Context) {
	var body struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apperr.Write(c, apperr.Invalid(err))
		return
	}
	if !isPasswordStrong(body.NewPassword) {
		apperr.Write(c, apperr.BadRequest("weak_password", weakPasswordError))
		return
	}

	var reset users.VerificationToken
	err := database.DB.Where("token = ? AND type = ?", body.Token, users.TokenPasswordReset).First(&reset).Error
	if err != nil || reset.ExpiresAt.Before(time.Now()) {
		apperr.Write(c, apperr.BadRequest("invalid_token", "Invalid or expired token"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&users.User{}).Where("id = ?", reset.UserID).Update("password", string(hashed)).Error; err != nil {
			return err
		}
		return tx.Delete(&reset).Error
	})
	if err != nil {
		apperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successful"})
}

func ChangePassword(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		apperr.Write(c, apperr.Unauthorized("Unauthorized"))
		return
	}

	var body struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apperr.Write(c, apperr.Invalid(err))
		return
	}
	if !isPasswordStrong(body.NewPassword) {
		apperr.Write(c, apperr.BadRequest("weak_password", weakPasswordError))
		return
	}

	var user users.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = apperr.Unauthorized("User not found")
		}
		apperr.Write(c, err)
		return
	}
	if user.Password == nil || *user.Password == "" {
		apperr.Write(c, apperr.BadRequest("no_password", "This account does not have a password. Sign in with Google or set a password first."))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(body.OldPassword)); err != nil {
		apperr.Write(c, apperr.Unauthorized("Old password is incorrect"))
		return
	}

	hashedNew, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	if err := database.DB.Model(&user).Update("password", string(hashedNew)).Error; err != nil {
		apperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}
