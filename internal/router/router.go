package router

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"reviewhub/internal/access"
	"reviewhub/internal/config"
	apperrors "reviewhub/internal/errors"
	"reviewhub/internal/handler"
	"reviewhub/internal/middleware"
	"reviewhub/internal/model"
)

// Handlers groups the route handlers.
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Category *handler.CatalogHandler[model.Category]
	Genre    *handler.CatalogHandler[model.Genre]
	Title    *handler.TitleHandler
	Review   *handler.ReviewHandler
	Comment  *handler.CommentHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log logrus.FieldLogger,
	metrics *middleware.Metrics,
	tokens middleware.TokenValidator,
	users middleware.IdentityResolver,
	h Handlers,
) {
	e.HTTPErrorHandler = middleware.ErrorHandler(log)
	e.Pre(echomw.RemoveTrailingSlash())
	e.Validator = NewValidator()

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(log))
	e.Use(metrics.Middleware())
	e.Use(middleware.Identity(tokens, users, log))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", metrics.Handler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1")

	authGroup := api.Group("/auth", echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(cfg.AuthRateLimit),
			Burst:     cfg.AuthRateBurst,
			ExpiresIn: 3 * time.Minute,
		}),
	}))
	authGroup.POST("/signup", h.Auth.Signup)
	authGroup.POST("/token", h.Auth.Token)

	self := middleware.Authorize(access.SelfPolicy, false)
	api.GET("/users/me", h.User.Me, self)
	api.PATCH("/users/me", h.User.UpdateMe, self)

	adminCollection := middleware.Authorize(access.AdminPolicy, true)
	adminObject := middleware.Authorize(access.AdminPolicy, false)
	api.GET("/users", h.User.ListUsers, adminCollection)
	api.POST("/users", h.User.CreateUser, adminCollection)
	api.GET("/users/:username", h.User.GetUser, adminObject)
	api.PATCH("/users/:username", h.User.UpdateUser, adminObject)
	api.DELETE("/users/:username", h.User.DeleteUser, adminObject)

	catalogCollection := middleware.Authorize(access.CatalogPolicy, true)
	catalogObject := middleware.Authorize(access.CatalogPolicy, false)
	api.GET("/categories", h.Category.List, catalogCollection)
	api.POST("/categories", h.Category.Create, catalogCollection)
	api.DELETE("/categories/:slug", h.Category.Delete, catalogObject)
	api.GET("/genres", h.Genre.List, catalogCollection)
	api.POST("/genres", h.Genre.Create, catalogCollection)
	api.DELETE("/genres/:slug", h.Genre.Delete, catalogObject)

	api.GET("/titles", h.Title.ListTitles, catalogCollection)
	api.POST("/titles", h.Title.CreateTitle, catalogCollection)
	api.GET("/titles/:title_id", h.Title.GetTitle, catalogObject)
	api.PATCH("/titles/:title_id", h.Title.UpdateTitle, catalogObject)
	api.DELETE("/titles/:title_id", h.Title.DeleteTitle, catalogObject)

	authoredCollection := middleware.Authorize(access.AuthoredPolicy, true)
	authoredObject := middleware.Authorize(access.AuthoredPolicy, false)
	reviews := "/titles/:title_id/reviews"
	api.GET(reviews, h.Review.ListReviews, authoredCollection)
	api.POST(reviews, h.Review.CreateReview, authoredCollection)
	api.GET(reviews+"/:review_id", h.Review.GetReview, authoredObject)
	api.PATCH(reviews+"/:review_id", h.Review.UpdateReview, authoredObject)
	api.DELETE(reviews+"/:review_id", h.Review.DeleteReview, authoredObject)

	comments := reviews + "/:review_id/comments"
	api.GET(comments, h.Comment.ListComments, authoredCollection)
	api.POST(comments, h.Comment.CreateComment, authoredCollection)
	api.GET(comments+"/:comment_id", h.Comment.GetComment, authoredObject)
	api.PATCH(comments+"/:comment_id", h.Comment.UpdateComment, authoredObject)
	api.DELETE(comments+"/:comment_id", h.Comment.DeleteComment, authoredObject)
}

// CustomValidator wraps validator for Echo and reports failures as
// per-field InvalidInput errors keyed by JSON name.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a validator that names fields by their json tag.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = append(fields[fe.Field()], fieldMessage(fe))
	}
	return apperrors.InvalidFields(fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "max":
		return fmt.Sprintf("ensure this field has no more than %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}
