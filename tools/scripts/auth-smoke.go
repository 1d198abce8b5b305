// Package main provides a CI-friendly end-to-end smoke test for the auth service.
//
// It validates:
//   - signup sets a session cookie and returns {id,email}
//   - currentuser resolves that session
//   - duplicate signup is rejected with "Email in use"
//   - signout clears the session
//   - signin with the same credentials starts a new session
//   - a wrong password fails with "Invalid credentials"
//
// The cookie is carried by hand so the check also works against a server
// running with AUTH_COOKIE_SECURE=true over plain http.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

type smokeClient struct {
	base    string
	cookie  string
	session *http.Cookie
	http    *http.Client
	verbose bool
}

type userBody struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type errorBody struct {
	Errors []struct {
		Message string `json:"message"`
		Field   string `json:"field,omitempty"`
	} `json:"errors"`
}

func main() {
	var (
		baseURL  = flag.String("url", "http://127.0.0.1:3000/api/users", "Base URL of the auth routes")
		cookie   = flag.String("cookie", "session", "Session cookie name")
		password = flag.String("password", "pass1234", "Password used for the throwaway account")
		timeout  = flag.Duration("timeout", 7*time.Second, "Per-request timeout")
		verbose  = flag.Bool("v", false, "Verbose output")
	)
	flag.Parse()

	if err := validateBaseURL(*baseURL); err != nil {
		fatalf("invalid -url: %v", err)
	}

	c := &smokeClient{
		base:    strings.TrimRight(*baseURL, "/"),
		cookie:  *cookie,
		http:    &http.Client{Timeout: *timeout},
		verbose: *verbose,
	}

	email := "smoke-" + strings.ToLower(ulid.Make().String()) + "@example.com"
	creds := map[string]string{"email": email, "password": *password}

	var created userBody
	status := c.mustPost("/signup", creds, &created)
	if status != http.StatusCreated {
		fatalf("signup: status=%d want=%d", status, http.StatusCreated)
	}
	if created.ID == "" || created.Email != email {
		fatalf("signup: unexpected body id=%q email=%q", created.ID, created.Email)
	}
	if c.session == nil {
		fatalf("signup: no %q cookie set", c.cookie)
	}

	c.mustCurrentUser(created.ID, email)

	var dup errorBody
	if status := c.mustPost("/signup", creds, &dup); status != http.StatusBadRequest {
		fatalf("duplicate signup: status=%d want=%d", status, http.StatusBadRequest)
	}
	if len(dup.Errors) != 1 || dup.Errors[0].Message != "Email in use" {
		fatalf("duplicate signup: unexpected errors %+v", dup.Errors)
	}

	if status := c.mustPost("/signout", struct{}{}, nil); status != http.StatusOK {
		fatalf("signout: status=%d", status)
	}
	c.mustCurrentUser("", "")

	var signedIn userBody
	if status := c.mustPost("/signin", creds, &signedIn); status != http.StatusOK {
		fatalf("signin: status=%d", status)
	}
	if signedIn.ID != created.ID {
		fatalf("signin: id mismatch got=%q want=%q", signedIn.ID, created.ID)
	}
	c.mustCurrentUser(created.ID, email)

	var bad errorBody
	wrong := map[string]string{"email": email, "password": *password + "x"}
	if status := c.mustPost("/signin", wrong, &bad); status != http.StatusBadRequest {
		fatalf("wrong password: status=%d want=%d", status, http.StatusBadRequest)
	}
	if len(bad.Errors) != 1 || bad.Errors[0].Message != "Invalid credentials" {
		fatalf("wrong password: unexpected errors %+v", bad.Errors)
	}

	fmt.Printf("OK: id=%s email=%s\n", created.ID, email)
}

func (c *smokeClient) mustCurrentUser(wantID, wantEmail string) {
	var out struct {
		CurrentUser *userBody `json:"currentUser"`
	}
	if status := c.mustPost("/currentuser", struct{}{}, &out); status != http.StatusOK {
		fatalf("currentuser: status=%d", status)
	}
	if wantID == "" {
		if out.CurrentUser != nil {
			fatalf("currentuser: expected null, got %+v", *out.CurrentUser)
		}
		return
	}
	if out.CurrentUser == nil {
		fatalf("currentuser: expected %s, got null", wantEmail)
	}
	if out.CurrentUser.ID != wantID || out.CurrentUser.Email != wantEmail {
		fatalf("currentuser: got %+v want id=%s email=%s", *out.CurrentUser, wantID, wantEmail)
	}
}

// mustPost sends body as JSON, records any session cookie change and decodes
// the response into out when out is non-nil.
func (c *smokeClient) mustPost(path string, body, out any) int {
	b, err := json.Marshal(body)
	if err != nil {
		fatalf("marshal %s: %v", path, err)
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, c.base+path, bytes.NewReader(b))
	if err != nil {
		fatalf("request %s: %v", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.session != nil {
		req.AddCookie(&http.Cookie{Name: c.session.Name, Value: c.session.Value})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		fatalf("POST %s: %v", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		fatalf("read %s: %v", path, err)
	}
	if c.verbose {
		fmt.Printf("POST %s -> %d %s\n", path, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	for _, ck := range resp.Cookies() {
		if ck.Name != c.cookie {
			continue
		}
		if ck.MaxAge < 0 || ck.Value == "" {
			c.session = nil
		} else {
			c.session = ck
		}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			fatalf("decode %s (%s): %v", path, raw, err)
		}
	}
	return resp.StatusCode
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	if strings.TrimSpace(u.Host) == "" {
		return errors.New("missing host")
	}
	return nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "FAIL: "+format+"\n", args...)
	os.Exit(1)
}
