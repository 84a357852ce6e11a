package response

import "net/http"

// 业务错误码
const (
	// 失败
	Fail ResponseCode = 0
	// 参数解析错误
	ParseError ResponseCode = 1
	// 参数错误
	InvalidParameter ResponseCode = 2
	// 未登录或令牌无效
	Unauthorized ResponseCode = 3
	// 无权限
	Forbidden ResponseCode = 4
	// 资源不存在
	NotFound ResponseCode = 5
	// 资源冲突（重复创建等）
	Conflict ResponseCode = 6
)

type BusinessError struct {
	Code ResponseCode
	Msg  string
	Err  error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// HTTPStatus 业务错误码对应的 HTTP 状态码
func (e *BusinessError) HTTPStatus() int {
	switch e.Code {
	case ParseError, InvalidParameter:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type ErrorOption func(*BusinessError)

func WithErrorCode(code ResponseCode) ErrorOption {
	return func(be *BusinessError) {
		be.Code = code
	}
}

func WithErrorMessage(msg string) ErrorOption {
	return func(be *BusinessError) {
		be.Msg = msg
	}
}

func WithError(err error) ErrorOption {
	return func(be *BusinessError) {
		be.Err = err
	}
}

func NewBusinessError(opts ...ErrorOption) *BusinessError {
	err := &BusinessError{
		Code: Fail,
		Msg:  "business error",
		Err:  nil,
	}
	for _, opt := range opts {
		opt(err)
	}
	return err
}

// 常用错误的快捷构造

func NewNotFound(msg string) *BusinessError {
	return NewBusinessError(WithErrorCode(NotFound), WithErrorMessage(msg))
}

func NewForbidden(msg string) *BusinessError {
	return NewBusinessError(WithErrorCode(Forbidden), WithErrorMessage(msg))
}

func NewInvalid(msg string) *BusinessError {
	return NewBusinessError(WithErrorCode(InvalidParameter), WithErrorMessage(msg))
}

func NewConflict(msg string) *BusinessError {
	return NewBusinessError(WithErrorCode(Conflict), WithErrorMessage(msg))
}

// NewInternal 包装数据库等底层错误
func NewInternal(msg string, err error) *BusinessError {
	return NewBusinessError(WithErrorCode(Fail), WithErrorMessage(msg), WithError(err))
}
