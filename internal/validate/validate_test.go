package validate

import (
	"testing"
	"time"

	"github.com/suppleit/supplefront/internal/model"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"a@b.co", true},
		{"user.name@example.com", true},
		{"a@b", false},
		{"a.b@", false},
		{"", false},
		{"a b@c.co", false},
		{"@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			got, reason := Email(tt.email)
			if got != tt.want {
				t.Errorf("Email(%q) = %v, want %v", tt.email, got, tt.want)
			}
			if !got && reason == "" {
				t.Error("a failing validation must carry a reason")
			}
		})
	}
}

func TestPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"valid with digit and special", "Abcdef1!", true},
		{"no digit and no special", "abcdefgh", false},
		{"too short", "Ab1!", false},
		{"digit but no special", "abcdefg1", false},
		{"special but no digit", "abcdefg!", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := Password(tt.password)
			if got != tt.want {
				t.Errorf("Password(%q) = %v, want %v", tt.password, got, tt.want)
			}
			if !got && reason == "" {
				t.Error("a failing validation must carry a reason")
			}
		})
	}
}

func TestNickname(t *testing.T) {
	tests := []struct {
		name     string
		nickname string
		want     bool
	}{
		{"alphanumeric", "user123", true},
		{"hangul", "건강지킴이", true},
		{"mixed hangul and ascii", "비타민abc", true},
		{"too short", "ab", false},
		{"too long", "abcdefghijklmnopqrstu", false},
		{"space not allowed", "user 123", false},
		{"symbol not allowed", "user!", false},
		{"exactly 3 runes", "가나다", true},
		{"exactly 20 runes", "가나다라마바사아자차카타파하가나다라마바", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := Nickname(tt.nickname)
			if got != tt.want {
				t.Errorf("Nickname(%q) = %v, want %v", tt.nickname, got, tt.want)
			}
		})
	}
}

func TestBirthDate(t *testing.T) {
	today := model.DateOf(time.Now())

	if ok, _ := BirthDate(today); !ok {
		t.Error("today should be a valid birth date")
	}
	if ok, _ := BirthDate(today.AddDays(-1)); !ok {
		t.Error("a past date should be valid")
	}
	if ok, _ := BirthDate(today.AddDays(1)); ok {
		t.Error("a future date must be rejected")
	}
	if ok, _ := BirthDate(model.Date{}); ok {
		t.Error("missing birth date must be rejected")
	}
}

func TestNew_RegistersCustomRules(t *testing.T) {
	v := New()

	type form struct {
		Password string `validate:"password_complexity"`
	}

	if err := v.Struct(form{Password: "Abcdef1!"}); err != nil {
		t.Errorf("valid password rejected: %v", err)
	}
	if err := v.Struct(form{Password: "abcdefgh"}); err == nil {
		t.Error("weak password accepted by struct validation")
	}
}

func TestSignup(t *testing.T) {
	valid := SignupForm{Email: "a@b.co", Password: "Abcdef1!", Nickname: "user123"}
	birth := model.NewDate(1990, time.May, 1)

	if ok, reason := Signup(valid, birth); !ok {
		t.Errorf("valid form rejected: %s", reason)
	}

	bad := valid
	bad.Email = "a@b"
	if ok, _ := Signup(bad, birth); ok {
		t.Error("invalid email accepted")
	}

	bad = valid
	bad.Password = "short"
	if ok, _ := Signup(bad, birth); ok {
		t.Error("invalid password accepted")
	}

	if ok, _ := Signup(valid, model.DateOf(time.Now()).AddDays(10)); ok {
		t.Error("future birth date accepted")
	}
}

func TestSignup_ReportsFieldReasonsInDeclarationOrder(t *testing.T) {
	birth := model.NewDate(1990, time.May, 1)

	tests := []struct {
		name string
		form SignupForm
		want string
	}{
		{
			name: "invalid email reported with email reason",
			form: SignupForm{Email: "not-an-email", Password: "Abcdef1!", Nickname: "user123"},
			want: "正しいメールアドレス形式ではありません。",
		},
		{
			name: "weak password reported with password reason",
			form: SignupForm{Email: "a@b.co", Password: "nodigits!", Nickname: "user123"},
			want: "パスワードには数字を1文字以上含めてください。",
		},
		{
			name: "bad nickname reported with nickname reason",
			form: SignupForm{Email: "a@b.co", Password: "Abcdef1!", Nickname: "no spaces!"},
			want: "ニックネームには英数字とハングルのみ使用できます。",
		},
		{
			name: "multiple failures report the first declared field",
			form: SignupForm{Email: "", Password: "short", Nickname: "x"},
			want: "メールアドレスを入力してください。",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := Signup(tt.form, birth)
			if ok {
				t.Fatal("invalid form accepted")
			}
			if reason != tt.want {
				t.Errorf("reason = %q, want %q", reason, tt.want)
			}
		})
	}
}
