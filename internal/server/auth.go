package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/rulzi/instaapp-go/internal/models"
)

// tokenClaims are the custom claims carried by issued tokens.
type tokenClaims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// AuthHandler handles registration, login, logout and profile requests.
type AuthHandler struct {
	store     *Store
	jwtSecret string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(store *Store, jwtSecret string) *AuthHandler {
	return &AuthHandler{store: store, jwtSecret: jwtSecret}
}

// RegisterAuthRoutes registers the unauthenticated auth routes.
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
}

// RegisterProfileRoutes registers the routes that need a valid token.
func (h *AuthHandler) RegisterProfileRoutes(g *echo.Group) {
	g.POST("/logout", h.Logout)
	g.GET("/me", h.Me)
}

// Register creates an account and returns a token plus the new user.
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to hash password")
	}

	user, err := h.store.CreateUser(req.Name, req.Email, hash)
	if errors.Is(err, ErrEmailTaken) {
		return respondValidation(c, http.StatusUnprocessableEntity, "The given data was invalid.",
			map[string][]string{"email": {"The email has already been taken."}})
	}
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to create account")
	}

	token, err := h.generateToken(user)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to generate token")
	}
	return respondData(c, http.StatusCreated, models.AuthResponse{Token: token, User: user})
}

// Login authenticates with email and password and returns a token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	user, hash, err := h.store.UserByEmail(req.Email)
	if err == nil {
		err = bcrypt.CompareHashAndPassword(hash, []byte(req.Password))
	}
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := h.generateToken(user)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "Failed to generate token")
	}
	return respondData(c, http.StatusOK, models.AuthResponse{Token: token, User: user})
}

// Logout acknowledges the logout. Tokens are stateless here, so there is
// nothing server-side to revoke; the client drops its credential.
func (h *AuthHandler) Logout(c echo.Context) error {
	return respondMessage(c, http.StatusOK, "Logged out")
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := h.store.UserByID(currentUserID(c))
	if err != nil {
		return respondError(c, http.StatusNotFound, "User not found")
	}
	return respondData(c, http.StatusOK, user)
}

func (h *AuthHandler) generateToken(user models.User) (string, error) {
	claims := &tokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
