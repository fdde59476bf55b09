package controllers

import (
	"net/http"
	"time"

	"github.com/angelmondragon/laptopshop/api/middleware"
	"github.com/angelmondragon/laptopshop/api/responses"
	"github.com/angelmondragon/laptopshop/api/validators"
	"github.com/angelmondragon/laptopshop/api/views"
	authsvc "github.com/angelmondragon/laptopshop/internal/auth"
	"github.com/angelmondragon/laptopshop/pkg/config"
	pkgerrors "github.com/angelmondragon/laptopshop/pkg/errors"
)

const (
	badCredentialsMessage = "Email hoặc mật khẩu không đúng"
	emailTakenMessage     = "Email đã được sử dụng"
)

// LoginPage shows the login form. Signed-in visitors go home.
func LoginPage(pages Pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.CurrentUserFromContext(r.Context()); ok {
			http.Redirect(w, r, homePath, http.StatusFound)
			return
		}
		pages.render(w, r, http.StatusOK, views.PageLogin, pages.base(r, "Đăng nhập"))
	}
}

// Login checks the credentials, stores the session token in an HttpOnly
// cookie and redirects home. JSON clients receive the token in the body.
func Login(svc authsvc.Service, pages Pages, cookie config.SessionConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req authsvc.LoginRequest
		if err := validators.DecodeForm(r, &req); err != nil {
			renderLoginForm(w, r, pages, http.StatusBadRequest, req, validators.FieldErrors(err))
			return
		}

		resp, err := svc.Login(r.Context(), req)
		if err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) && !middleware.WantsJSON(r) {
				renderLoginForm(w, r, pages, http.StatusUnauthorized, req, map[string]string{"form": badCredentialsMessage})
				return
			}
			writeFailure(w, r, pages, err)
			return
		}

		setSessionCookie(w, cookie, resp.AccessToken, resp.ExpiresAt)
		if middleware.WantsJSON(r) {
			responses.WriteSuccess(w, resp)
			return
		}
		http.Redirect(w, r, homePath, http.StatusFound)
	}
}

// RegisterPage shows the sign-up form.
func RegisterPage(pages Pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.CurrentUserFromContext(r.Context()); ok {
			http.Redirect(w, r, homePath, http.StatusFound)
			return
		}
		pages.render(w, r, http.StatusOK, views.PageRegister, pages.base(r, "Đăng ký"))
	}
}

// Register creates the account and sends the visitor to the login page.
func Register(svc authsvc.Service, pages Pages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req authsvc.RegisterRequest
		if err := validators.DecodeForm(r, &req); err != nil {
			renderRegisterForm(w, r, pages, http.StatusBadRequest, req, validators.FieldErrors(err))
			return
		}

		if _, err := svc.Register(r.Context(), req); err != nil {
			switch pkgerrors.CodeOf(err) {
			case pkgerrors.CodeConflict:
				renderRegisterForm(w, r, pages, http.StatusConflict, req, map[string]string{"email": emailTakenMessage})
			case pkgerrors.CodeValidation:
				renderRegisterForm(w, r, pages, http.StatusBadRequest, req, validators.FieldErrors(err))
			default:
				pages.fail(w, r, err)
			}
			return
		}
		http.Redirect(w, r, loginPath, http.StatusFound)
	}
}

// Logout revokes the session and clears the cookie.
func Logout(svc authsvc.Service, pages Pages, cookie config.SessionConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if user, ok := middleware.CurrentUserFromContext(r.Context()); ok {
			if err := svc.Logout(r.Context(), user.SessionID); err != nil && pages.Logger != nil {
				pages.Logger.Error(r.Context(), "auth.logout_failed", err)
			}
		}
		middleware.ClearSessionCookie(w, cookie.CookieName)
		http.Redirect(w, r, homePath, http.StatusFound)
	}
}

func renderLoginForm(w http.ResponseWriter, r *http.Request, pages Pages, status int, req authsvc.LoginRequest, errs map[string]string) {
	if middleware.WantsJSON(r) {
		responses.WriteError(r.Context(), pages.Logger, w, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(errs))
		return
	}
	page := pages.base(r, "Đăng nhập")
	page.Form = map[string]string{"email": req.Email}
	page.Errors = errs
	pages.render(w, r, status, views.PageLogin, page)
}

func renderRegisterForm(w http.ResponseWriter, r *http.Request, pages Pages, status int, req authsvc.RegisterRequest, errs map[string]string) {
	page := pages.base(r, "Đăng ký")
	page.Form = map[string]string{"fullName": req.FullName, "email": req.Email}
	page.Errors = errs
	pages.render(w, r, status, views.PageRegister, page)
}

func writeFailure(w http.ResponseWriter, r *http.Request, pages Pages, err error) {
	if middleware.WantsJSON(r) {
		responses.WriteError(r.Context(), pages.Logger, w, err)
		return
	}
	pages.fail(w, r, err)
}

func setSessionCookie(w http.ResponseWriter, cfg config.SessionConfig, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
