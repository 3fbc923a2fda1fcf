package auth

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

type AuthControllerRoutes struct {
	Signup string
	Token  string
	Login  string
	Me     string
}

type AuthController struct {
	Debug  bool
	Logger Logger
	Auther *Auther
	Config Config
	Routes *AuthControllerRoutes
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerLogger(l Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = normalizeLogger(l)
		return c
	}
}

func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func WithControllerRoutes(routes *AuthControllerRoutes) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if routes != nil {
			c.Routes = routes
		}
		return c
	}
}

func NewAuthController(auther *Auther, cfg Config, opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Auther: auther,
		Config: cfg,
		Routes: &AuthControllerRoutes{
			Signup: "/signup",
			Token:  "/token",
			Login:  "/login",
			Me:     "/users/me",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Auther in auth controller...")
	}

	if c.Config == nil {
		panic("Missing Config in auth controller...")
	}

	return c
}

// RegisterAuthRoutes mounts signup, token and identity routes on app
func RegisterAuthRoutes(app fiber.Router, controller *AuthController) {
	app.Post(controller.Routes.Signup, controller.SignupPost).Name("signup.post")
	app.Post(controller.Routes.Token, controller.TokenPost).Name("token.post")
	app.Post(controller.Routes.Login, controller.TokenPost).Name("login.post")
	app.Get(controller.Routes.Me,
		ProtectedRoute(controller.Auther, controller.Config, ErrorHandler(controller.Logger)),
		controller.MeGet,
	).Name("users.me.get")
}

// SignupRequest payload. IdentityKey is accepted as an alias of Username.
type SignupRequest struct {
	Username    string `form:"username" json:"username"`
	IdentityKey string `form:"identity_key" json:"identity_key"`
	Password    string `form:"password" json:"password"`
}

func (r SignupRequest) GetIdentityKey() string {
	if r.Username != "" {
		return r.Username
	}
	return r.IdentityKey
}

// notBlank rejects values made only of whitespace
var notBlank = validation.NewStringRule(func(s string) bool {
	return strings.TrimSpace(s) != ""
}, "cannot be blank")

// Validate will run validation rules
func (r SignupRequest) Validate() error {
	key := r.GetIdentityKey()
	return validation.Errors{
		"username": validation.Validate(key, validation.Required, notBlank, validation.Length(1, 254)),
		"password": validation.Validate(r.Password, validation.Required, validation.Length(1, 72)),
	}.Filter()
}

// LoginRequest payload
type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, notBlank),
		validation.Field(&r.Password, validation.Required),
	)
}

// MessageResponse acknowledges a successful signup
type MessageResponse struct {
	Message string `json:"message"`
}

func (a *AuthController) SignupPost(c *fiber.Ctx) error {
	payload := new(SignupRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("signup parse payload: %v", err)
		return badRequest(err, "failed to parse body")
	}

	if err := payload.Validate(); err != nil {
		return validationError(err)
	}

	if err := a.Auther.Signup(c.UserContext(), payload.GetIdentityKey(), payload.Password); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(MessageResponse{
		Message: "User signed up successfully",
	})
}

func (a *AuthController) TokenPost(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload: %v", err)
		return badRequest(err, "failed to parse body")
	}

	if err := payload.Validate(); err != nil {
		return validationError(err)
	}

	if a.Debug {
		a.Logger.Debug("login request: %s", print.MaybePrettyJSON(map[string]any{
			"username": payload.Username,
		}))
	}

	resp, err := a.Auther.Login(c.UserContext(), payload.Username, payload.Password)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (a *AuthController) MeGet(c *fiber.Ctx) error {
	session, err := GetRouterSession(c, a.Config.GetContextKey())
	if err != nil {
		return ErrInvalidToken
	}

	return c.Status(fiber.StatusOK).JSON(session)
}

func badRequest(err error, message string) error {
	return goerrors.Wrap(err, goerrors.CategoryBadInput, message).
		WithTextCode(TextCodeBadRequest).
		WithCode(goerrors.CodeBadRequest)
}

func validationError(err error) error {
	fields := FormatValidationErrorToMap(err)
	fieldErrors := make([]goerrors.FieldError, 0, len(fields))
	for field, message := range fields {
		fieldErrors = append(fieldErrors, goerrors.FieldError{
			Field:   field,
			Message: message,
		})
	}

	return goerrors.NewValidation("invalid request payload", fieldErrors...).
		WithTextCode(TextCodeBadRequest).
		WithCode(goerrors.CodeBadRequest)
}

// FormatValidationErrorToMap flattens ozzo validation errors keyed by field
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	errs, ok := err.(validation.Errors)
	if !ok {
		out["payload"] = err.Error()
		return out
	}

	for field, fieldErr := range errs {
		if fieldErr == nil {
			continue
		}
		out[strings.ToLower(field)] = fieldErr.Error()
	}

	return out
}
