package xrange

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBound 表示单个八位组的范围文本格式错误或数值越界
	// （非数字、连字符分段数不为 2、数值超出 [0,255]）。
	ErrInvalidBound = errors.New("xrange: invalid bound")

	// ErrInvertedBound 表示范围文本语法合法，但上界小于下界。
	ErrInvertedBound = errors.New("xrange: inverted bound")
)

// Kind 表示范围解析错误的类别。
type Kind uint8

const (
	// KindInvalidBound 对应 [ErrInvalidBound]。
	KindInvalidBound Kind = iota + 1
	// KindInvertedBound 对应 [ErrInvertedBound]。
	KindInvertedBound
)

// String 返回类别名称。
func (k Kind) String() string {
	switch k {
	case KindInvalidBound:
		return "InvalidBound"
	case KindInvertedBound:
		return "InvertedBound"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// sentinel 返回类别对应的哨兵错误。
func (k Kind) sentinel() error {
	switch k {
	case KindInvertedBound:
		return ErrInvertedBound
	default:
		return ErrInvalidBound
	}
}

// BoundError 是 [ParseBound] 返回的结构化错误，携带类别和原始输入。
//
// 使用 errors.Is(err, ErrInvalidBound) / errors.Is(err, ErrInvertedBound) 判断类别，
// 使用 errors.As 获取原始输入：
//
//	var be *xrange.BoundError
//	if errors.As(err, &be) {
//	    fmt.Println(be.Kind, be.Input)
//	}
type BoundError struct {
	Kind  Kind
	Input string
	// Err 为底层原因（如 strconv 的解析错误），可能为 nil。
	Err error
}

// Error 实现 error 接口。
func (e *BoundError) Error() string {
	msg := fmt.Sprintf("%s %q", e.Kind.sentinel(), e.Input)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is 支持 errors.Is 按类别匹配哨兵错误。
func (e *BoundError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// Unwrap 返回底层原因。
func (e *BoundError) Unwrap() error {
	return e.Err
}

// OctetError 标识四个范围中哪一个解析失败。
type OctetError struct {
	Octet int
	Err   error
}

// Error 实现 error 接口。
func (e *OctetError) Error() string {
	return fmt.Sprintf("xrange: octet %d: %v", e.Octet, e.Err)
}

// Unwrap 返回底层错误。
func (e *OctetError) Unwrap() error {
	return e.Err
}
