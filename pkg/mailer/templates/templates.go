package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

// The two transactional emails the identity service sends. Data carries
// "Link" (the front-end URL embedding the token) and optionally "Name".

const (
	VerifyAccount = "verify_account"
	ResetPassword = "reset_password"
)

var subjects = map[string]string{
	VerifyAccount: "Account Verification",
	ResetPassword: "Password Reset",
}

var texts = map[string]string{
	VerifyAccount: "Hello,\n\nTo verify your account, please open the following link:\n\n{{.Link}}\n",
	ResetPassword: "Hello,\n\nTo reset your password, please open the following link:\n\n{{.Link}}\n",
}

var htmlBodies = map[string]string{
	VerifyAccount: `<html><body>
<h2>Hello!</h2>
<p>To verify your account, please click the link below:</p>
<p><a href="{{.Link}}">Verify Account</a></p>
<p>If you did not register on our website, please ignore this message.</p>
</body></html>`,
	ResetPassword: `<html><body>
<h2>Hello!</h2>
<p>To reset your password, please click the link below:</p>
<p><a href="{{.Link}}">Reset Password</a></p>
<p>If you did not request a password reset, please ignore this message.</p>
</body></html>`,
}

// Render returns subject, plaintext and HTML bodies for a template name.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	subject, ok := subjects[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
	text, err = render(name+"_text", texts[name], data)
	if err != nil {
		return "", "", "", err
	}
	html, err = render(name+"_html", htmlBodies[name], data)
	if err != nil {
		return "", "", "", err
	}
	return subject, text, html, nil
}

func render(name, body string, data map[string]any) (string, error) {
	t, err := template.New(name).Parse(body)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
