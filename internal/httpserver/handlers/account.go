package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/brainlink/internal/account"
	"github.com/MrSnakeDoc/brainlink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/brainlink/internal/httpserver/mw"
	"github.com/MrSnakeDoc/brainlink/internal/httpserver/views"
	"github.com/MrSnakeDoc/brainlink/internal/logger"
)

// signedUpParam marks the redirect that follows a successful sign-up.
const signedUpParam = "signed_up"

func SignupForm(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(d, w, http.StatusOK, views.Signup, views.AuthData{})
	}
}

func Signup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := r.PostFormValue("username")
		out := d.Accounts.Signup(r.Context(), username, r.PostFormValue("password"))
		if out.OK() {
			seeOther(w, r, out.Redirect+"?"+signedUpParam+"=1")
			return
		}
		render(d, w, http.StatusUnprocessableEntity, views.Signup, views.AuthData{
			Username:    username,
			Error:       out.Error,
			FieldErrors: out.FieldErrors,
		})
	}
}

func SigninForm(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := views.AuthData{}
		if r.URL.Query().Get(signedUpParam) != "" {
			data.Notice = account.MsgSignedUp
		}
		render(d, w, http.StatusOK, views.Signin, data)
	}
}

func Signin(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := mw.SessionFrom(r.Context())
		username := r.PostFormValue("username")

		out := d.Accounts.Signin(r.Context(), w, sess, username, r.PostFormValue("password"))
		if out.OK() {
			// The browser may still hold the previous user's dashboard.
			d.Dashboards.Unmount(sess.ID)
			seeOther(w, r, out.Redirect)
			return
		}
		render(d, w, http.StatusUnprocessableEntity, views.Signin, views.AuthData{
			Username:    username,
			Error:       out.Error,
			FieldErrors: out.FieldErrors,
		})
	}
}

// Signout clears the credential, unmounts the dashboard and expires the cookie.
func Signout(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := mw.SessionFrom(r.Context())
		if sess.ID != "" {
			d.Dashboards.Unmount(sess.ID)
		}
		if err := d.Sessions.SignOut(r.Context(), w, sess); err != nil {
			d.Logger.Error("failed to sign out", logger.Error(err))
		}
		seeOther(w, r, "/signin")
	}
}
