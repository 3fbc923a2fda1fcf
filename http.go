package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-login/middleware/jwtware"
)

// ErrorResponse is the JSON body returned for every failed request
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code     int               `json:"code"`
	TextCode string            `json:"text_code"`
	Message  string            `json:"message"`
	Fields   map[string]string `json:"fields,omitempty"`
}

// ProtectedRoute returns a middleware that resolves the bearer token of the
// request and stores the Session under cfg.GetContextKey().
func ProtectedRoute(auther *Auther, cfg Config, errorHandler fiber.ErrorHandler) fiber.Handler {
	return jwtware.New(jwtware.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// missing, malformed and rejected tokens all answer the same way
			return errorHandler(c, ErrInvalidToken)
		},
		AuthScheme:  cfg.GetAuthScheme(),
		ContextKey:  cfg.GetContextKey(),
		TokenLookup: cfg.GetTokenLookup(),
		Resolver: jwtware.ResolverFunc(func(ctx context.Context, token string) (any, error) {
			return auther.Resolve(ctx, token)
		}),
		ContextEnricher: func(ctx context.Context, session any) context.Context {
			if s, ok := session.(Session); ok {
				return WithSessionContext(ctx, s)
			}
			return ctx
		},
	})
}

// ErrorHandler maps errors to the JSON error body. It is used both as the
// fiber application error handler and by ProtectedRoute.
func ErrorHandler(logger Logger) fiber.ErrorHandler {
	logger = normalizeLogger(logger)

	return func(c *fiber.Ctx, err error) error {
		var richErr *errors.Error
		if !errors.As(err, &richErr) {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				return c.Status(fiberErr.Code).JSON(ErrorResponse{
					Error: ErrorBody{
						Code:     fiberErr.Code,
						TextCode: errors.HTTPStatusToTextCode(fiberErr.Code),
						Message:  fiberErr.Message,
					},
				})
			}

			richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
				WithTextCode(TextCodeInternal).
				WithCode(errors.CodeInternal)
		}

		status := statusFromError(richErr)
		body := ErrorBody{
			Code:     status,
			TextCode: richErr.TextCode,
			Message:  richErr.Message,
		}

		switch {
		case status == fiber.StatusUnauthorized:
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
			body.TextCode = TextCodeUnauthorized
			body.Message = ErrInvalidCredentials.Message
		case status >= fiber.StatusInternalServerError:
			logger.Error("request failed path=%s error=%v", c.Path(), err)
			body.TextCode = TextCodeInternal
			body.Message = "internal server error"
		case status == fiber.StatusBadRequest:
			if fields := richErr.ValidationMap(); len(fields) > 0 {
				body.Fields = fields
			}
		}

		if body.TextCode == "" {
			body.TextCode = TextCodeBadRequest
		}

		return c.Status(status).JSON(ErrorResponse{Error: body})
	}
}

func statusFromError(richErr *errors.Error) int {
	switch richErr.Category {
	case errors.CategoryAuth:
		return fiber.StatusUnauthorized
	case errors.CategoryConflict:
		return fiber.StatusConflict
	case errors.CategoryValidation, errors.CategoryBadInput:
		return fiber.StatusBadRequest
	case errors.CategoryNotFound:
		// stores report missing records as not found; callers only ever see 401
		return fiber.StatusUnauthorized
	}

	if richErr.Code >= 400 && richErr.Code < 600 {
		return richErr.Code
	}

	return fiber.StatusInternalServerError
}
