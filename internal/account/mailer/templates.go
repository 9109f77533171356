package mailer

import "fmt"

// VerificationEmail renders the subject and body for an email verification
// code.
func VerificationEmail(code string, ttlMinutes int) (subject, body string) {
	subject = "Verify your email address"
	body = fmt.Sprintf(
		`<p>Your verification code is:</p>
<p style="font-size:24px;font-weight:bold;letter-spacing:4px">%s</p>
<p>The code expires in %d minutes. If you didn't request it you can ignore this email.</p>`,
		code, ttlMinutes,
	)
	return subject, body
}

// PasswordResetEmail renders the subject and body for a password reset code.
func PasswordResetEmail(code string, ttlMinutes int) (subject, body string) {
	subject = "Reset your password"
	body = fmt.Sprintf(
		`<p>Your password reset code is:</p>
<p style="font-size:24px;font-weight:bold;letter-spacing:4px">%s</p>
<p>The code expires in %d minutes. If you didn't request a reset, your account is still secure and no action is needed.</p>`,
		code, ttlMinutes,
	)
	return subject, body
}
