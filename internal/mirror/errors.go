package mirror

import "errors"

// ErrPermission marks a fetch rejected by the backend for authorization
// reasons. During sign-in/sign-out transitions these are expected and the
// session bootstrap retries through them.
var ErrPermission = errors.New("permission denied")

// ErrNotFound marks a profile document that does not exist yet. Right
// after signup the identity row can lag the issued token, so the session
// bootstrap retries through this too.
var ErrNotFound = errors.New("not found")

// Auth failure codes as the backend reports them.
const (
	CodeBadCredentials = "bad_credentials"
	CodeUsernameTaken  = "username_taken"
	CodeWeakPassword   = "weak_password"
	CodeInternal       = "internal"
)

var authMessages = map[string]string{
	CodeBadCredentials: "اسم المستخدم أو كلمة المرور غير صحيحة",
	CodeUsernameTaken:  "اسم المستخدم مستخدم بالفعل",
	CodeWeakPassword:   "كلمة المرور ضعيفة (يجب أن تكون 6 أحرف على الأقل)",
}

// AuthMessage maps a backend auth failure code to its fixed user-facing
// message. Unrecognized codes collapse into the generic failure text.
func AuthMessage(code string) string {
	if msg, ok := authMessages[code]; ok {
		return msg
	}
	return "حدث خطأ، يرجى المحاولة لاحقاً"
}
