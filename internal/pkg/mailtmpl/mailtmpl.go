package mailtmpl

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
)

//go:embed verify_email.html
var verifyEmailSrc string

var verifyEmail = template.Must(template.New("verify_email").Parse(verifyEmailSrc))

// VerifyEmailData holds data for the verification email template.
type VerifyEmailData struct {
	Name string
	Link string
	Code int
}

// VerifyEmailHTML renders the verification email for the recipient name, link and code.
// Values are HTML-escaped; the link is additionally URL-sanitised by html/template.
func VerifyEmailHTML(name, link string, code int) (string, error) {
	var buf bytes.Buffer
	if err := verifyEmail.Execute(&buf, VerifyEmailData{Name: name, Link: link, Code: code}); err != nil {
		return "", fmt.Errorf("render verification email: %w", err)
	}
	return buf.String(), nil
}
