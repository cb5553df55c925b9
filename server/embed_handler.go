package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/contraptionco/trivet/auth"
)

// oneTapScript is the embeddable Google One Tap loader served to tenant
// blogs. It initializes Google Identity Services with the account's own
// client ID and posts the resulting credential back to the broker.
const oneTapScript = `(function () {
  "use strict";

  var CLIENT_ID = %q;
  var ACCOUNT = %q;
  var CALLBACK_URL = %q;

  function handleCredential(response) {
    fetch(CALLBACK_URL, {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify({
        credential: response.credential,
        flow: "member",
        accountUuid: ACCOUNT,
        redirect: window.location.href
      })
    })
      .then(function (res) { return res.json(); })
      .then(function (data) {
        if (data.signInUrl) {
          window.location.href = data.signInUrl;
        }
      })
      .catch(function () { /* stay on the page */ });
  }

  function initialize() {
    if (!window.google || !window.google.accounts || !window.google.accounts.id) {
      return;
    }
    window.google.accounts.id.initialize({
      client_id: CLIENT_ID,
      callback: handleCredential,
      cancel_on_tap_outside: true
    });
    window.google.accounts.id.prompt();
  }

  var script = document.createElement("script");
  script.src = "https://accounts.google.com/gsi/client";
  script.async = true;
  script.defer = true;
  script.onload = initialize;
  document.head.appendChild(script);
})();
`

// oneTapPlaceholder keeps embeds on unconfigured accounts harmless: a
// valid script that does nothing.
const oneTapPlaceholder = `/* Trivet One Tap is not enabled for this account. ` +
	`Configure a custom Google OAuth app in the Trivet dashboard to enable it. */` + "\n"

// OneTapScriptHandler serves the per-account One Tap embed. One Tap
// credentials can only be verified by the issuing app, so accounts on
// the shared app get the placeholder.
func (s *Server) OneTapScriptHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")

		accountUUID := r.URL.Query().Get("account")
		if accountUUID == "" {
			fmt.Fprint(w, oneTapPlaceholder)
			return
		}

		account, err := s.repos.Accounts.GetByUUID(r.Context(), accountUUID)
		if err != nil || !account.HasCustomGoogleApp() {
			fmt.Fprint(w, oneTapPlaceholder)
			return
		}

		callbackURL := strings.TrimSuffix(s.config.GetBaseURL(), "/") + auth.CallbackPath
		fmt.Fprintf(w, oneTapScript, account.GoogleOauthClientID, account.UUID, callbackURL)
	}
}
