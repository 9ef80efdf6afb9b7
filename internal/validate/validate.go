// Package validate は入力フォームの検証を提供する。
// ここでの検証はUX向上のための助言的なものであり、
// 最終的な検証の権威はバックエンドにある。
package validate

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/suppleit/supplefront/internal/model"
)

var (
	// emailPattern は local@domain.tld 形式を要求する。
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// nicknamePattern は英数字とハングルのみを許可する。
	nicknamePattern = regexp.MustCompile(`^[a-zA-Z0-9가-힣]+$`)
	// digitPattern は数字1文字以上を要求する。
	digitPattern = regexp.MustCompile(`[0-9]`)
)

// passwordSpecialChars はパスワードに要求する特殊文字の固定セット。
const passwordSpecialChars = `!@#$%^&*(),.?":{}|<>`

const (
	nicknameMinLen = 3
	nicknameMaxLen = 20
	passwordMinLen = 8
)

// Email はメールアドレス形式を検証する。
func Email(email string) (bool, string) {
	if email == "" {
		return false, "メールアドレスを入力してください。"
	}
	if !emailPattern.MatchString(email) {
		return false, "正しいメールアドレス形式ではありません。"
	}
	return true, ""
}

// Password はパスワードの複雑性を検証する。
// 8文字以上、数字1文字以上、特殊文字1文字以上を要求する。
func Password(password string) (bool, string) {
	if len(password) < passwordMinLen {
		return false, "パスワードは8文字以上で入力してください。"
	}
	if !digitPattern.MatchString(password) {
		return false, "パスワードには数字を1文字以上含めてください。"
	}
	if !strings.ContainsAny(password, passwordSpecialChars) {
		return false, "パスワードには特殊文字を1文字以上含めてください。"
	}
	return true, ""
}

// Nickname はニックネームを検証する。
// 3〜20文字、英数字とハングルのみを許可する。
func Nickname(nickname string) (bool, string) {
	length := utf8.RuneCountInString(nickname)
	if length < nicknameMinLen || length > nicknameMaxLen {
		return false, "ニックネームは3〜20文字で入力してください。"
	}
	if !nicknamePattern.MatchString(nickname) {
		return false, "ニックネームには英数字とハングルのみ使用できます。"
	}
	return true, ""
}

// BirthDate は生年月日が現在日付より後でないことを検証する。
func BirthDate(birth model.Date) (bool, string) {
	if birth.IsZero() {
		return false, "生年月日を入力してください。"
	}
	if birth.After(model.DateOf(time.Now())) {
		return false, "生年月日に未来の日付は指定できません。"
	}
	return true, ""
}

// New はカスタムルールを登録済みのvalidatorインスタンスを生成する。
// 構造体タグ（validate:"password_complexity" 等）でフォーム構造体の
// 一括検証に使用する。
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// エラーは登録関数名の重複時のみ発生するため無視してよい
	_ = v.RegisterValidation("password_complexity", func(fl validator.FieldLevel) bool {
		ok, _ := Password(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("nickname_chars", func(fl validator.FieldLevel) bool {
		ok, _ := Nickname(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("email_shape", func(fl validator.FieldLevel) bool {
		ok, _ := Email(fl.Field().String())
		return ok
	})

	return v
}

// signupValidator は会員登録フォームの構造体検証に使う共有インスタンス。
var signupValidator = New()

// SignupForm は会員登録フォームの検証対象フィールド。
type SignupForm struct {
	Email    string `validate:"required,email_shape"`
	Password string `validate:"required,password_complexity"`
	Nickname string `validate:"required,nickname_chars"`
}

// Signup は会員登録フォームを構造体タグで一括検証し、最初の失敗理由を返す。
// フィールドの宣言順に検証されるため、メール→パスワード→ニックネームの
// 順で失敗が報告される。生年月日はカスタム型のため個別に検証する。
func Signup(form SignupForm, birth model.Date) (bool, string) {
	if err := signupValidator.Struct(form); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return false, fieldReason(fieldErrs[0])
		}
		return false, "入力内容を確認してください。"
	}
	return BirthDate(birth)
}

// fieldReason は失敗したフィールドの検証関数を再実行して、
// ユーザー向けの失敗理由を取得する。
func fieldReason(fe validator.FieldError) string {
	value, _ := fe.Value().(string)
	switch fe.StructField() {
	case "Email":
		_, reason := Email(value)
		return reason
	case "Password":
		_, reason := Password(value)
		return reason
	case "Nickname":
		_, reason := Nickname(value)
		return reason
	}
	return "入力内容を確認してください。"
}
