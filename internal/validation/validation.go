// Package validation は入力検証の純粋関数を提供する。
// I/Oや副作用は持たない。
package validation

import (
	"regexp"

	"github.com/hitoshi/blogd/internal/model"
)

// minPasswordLength はパスワードの最小文字数。
const minPasswordLength = 5

// minPostFieldLength は記事タイトル・本文の最小文字数。
const minPostFieldLength = 5

// emailPattern はRFCの近似によるメールアドレス形式チェック。
// 完全なRFC 5322準拠ではなく、実用上の形式違反を弾くことが目的。
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$`)

// ValidEmail はメールアドレスの形式が妥当かを返す。
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidPassword はパスワードが非空かつ最小文字数以上かを返す。
func ValidPassword(s string) bool {
	return len([]rune(s)) >= minPasswordLength
}

// ValidateSignup は登録入力を検証し、違反フィールドごとのエラーを返す。
// 空スライスは全フィールド妥当を意味する。途中で打ち切らず全件を集める。
func ValidateSignup(email, password string) []model.FieldError {
	var errs []model.FieldError
	if !ValidEmail(email) {
		errs = append(errs, model.FieldError{Message: "E-mail is invalid."})
	}
	if !ValidPassword(password) {
		errs = append(errs, model.FieldError{Message: "Password is too short."})
	}
	return errs
}

// ValidatePostFields は記事のタイトルと本文を検証し、
// 違反フィールドごとのエラーを返す。空スライスは妥当を意味する。
func ValidatePostFields(title, content string) []model.FieldError {
	var errs []model.FieldError
	if !validPostField(title) {
		errs = append(errs, model.FieldError{Message: "Title is invalid"})
	}
	if !validPostField(content) {
		errs = append(errs, model.FieldError{Message: "Content is invalid"})
	}
	return errs
}

func validPostField(s string) bool {
	return len([]rune(s)) >= minPostFieldLength
}
