package validationx

import (
	"github.com/ARUMANDESU/validation"
	"github.com/ARUMANDESU/validation/is"
)

var (
	EmailRules = []validation.Rule{
		validation.Required,
		is.Email,
		validation.Length(5, 255),
	}

	NameRules = []validation.Rule{
		validation.Required,
		validation.Length(1, 150),
		IsPersonName,
	}

	PasswordRules = []validation.Rule{
		validation.Required,
		validation.Length(8, 128),
		PasswordFormat,
	}

	OTPRules = []validation.Rule{
		validation.Required,
		validation.Length(6, 6),
		IsOTPCode,
	}

	PhoneRules = []validation.Rule{
		is.E164,
	}

	CountryRules = []validation.Rule{
		is.CountryCode2,
	}
)
