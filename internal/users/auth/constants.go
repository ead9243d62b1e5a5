// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Field Identifiers

// Field names reported on invalid credential forms.
const (
	FieldUsername        = "username"
	FieldPassword        = "password"
	FieldFirstName       = "firstname"
	FieldLastName        = "lastname"
	FieldEmail           = "email"
	FieldPhone           = "phone"
	FieldOldPassword     = "oldPassword"
	FieldNewPassword     = "newPassword"
	FieldConfirmPassword = "confirmPassword"
)

// # Limits

const (
	// MaxFieldLength bounds every free-text credential field.
	MaxFieldLength = 255

	// MsgPasswordMismatch is reported when the confirmation differs from the new password.
	MsgPasswordMismatch = "Both passwords must match"
)
