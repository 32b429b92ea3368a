package xrange

import (
	"errors"
	"strconv"
	"strings"
)

// FullBound 是覆盖整个八位组取值空间的范围文本。
// 命令行层在未指定某个八位组时使用它作为默认值。
const FullBound = "0-255"

// errPartCount 表示连字符分段数不为 2。
var errPartCount = errors.New("a range must have exactly two parts")

// Bound 表示单个八位组的闭区间 [Lower, Upper]。
//
// 只能通过 [ParseBound] 或字面量构造；构造后不可变。
// 零值 Bound{0, 0} 是合法的单值范围。
type Bound struct {
	Lower uint8
	Upper uint8
}

// Full 返回 [0, 255]。
func Full() Bound {
	return Bound{Lower: 0, Upper: 255}
}

// Single 返回只包含 v 的单值范围。
func Single(v uint8) Bound {
	return Bound{Lower: v, Upper: v}
}

// ParseBound 解析单个八位组的范围文本。
//
// 支持两种格式（首尾空白会被去除）：
//   - 单值: "7"，得到 [7, 7]
//   - 范围: "10-20"，得到 [10, 20]
//
// 每个数值必须是 [0,255] 内的十进制无符号整数。分段内部不允许空白，
// 因此 "1 - 2" 会返回 [ErrInvalidBound]。上界小于下界时返回 [ErrInvertedBound]。
// 返回的错误均为 *[BoundError]。
func ParseBound(text string) (Bound, error) {
	s := strings.TrimSpace(text)

	if !strings.Contains(s, "-") {
		v, err := parseOctet(s)
		if err != nil {
			return Bound{}, &BoundError{Kind: KindInvalidBound, Input: text, Err: err}
		}
		return Single(v), nil
	}

	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return Bound{}, &BoundError{Kind: KindInvalidBound, Input: text, Err: errPartCount}
	}
	lower, err := parseOctet(parts[0])
	if err != nil {
		return Bound{}, &BoundError{Kind: KindInvalidBound, Input: text, Err: err}
	}
	upper, err := parseOctet(parts[1])
	if err != nil {
		return Bound{}, &BoundError{Kind: KindInvalidBound, Input: text, Err: err}
	}
	if upper < lower {
		return Bound{}, &BoundError{Kind: KindInvertedBound, Input: text}
	}
	return Bound{Lower: lower, Upper: upper}, nil
}

// MustParseBound 与 ParseBound 相同，但失败时 panic。
// 仅用于测试和常量输入。
func MustParseBound(text string) Bound {
	b, err := ParseBound(text)
	if err != nil {
		panic(err)
	}
	return b
}

// ValidateBound 校验范围文本，不返回解析结果。
//
// 直接委托给 [ParseBound]，两者的接受集合始终一致。
// 供命令行 flag 校验器在构造枚举器之前使用。
func ValidateBound(text string) error {
	_, err := ParseBound(text)
	return err
}

// ParseBounds 依次解析四个八位组的范围文本（最高位在前）。
// 任一失败时返回 *[OctetError]，其中包装了对应的 *[BoundError]。
func ParseBounds(texts [4]string) ([4]Bound, error) {
	var out [4]Bound
	for i, t := range texts {
		b, err := ParseBound(t)
		if err != nil {
			return [4]Bound{}, &OctetError{Octet: i, Err: err}
		}
		out[i] = b
	}
	return out, nil
}

// parseOctet 解析 [0,255] 内的十进制整数。
// strconv.ParseUint 拒绝符号、空白和空串。
func parseOctet(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, err
	}
	return uint8(v), nil
}

// Size 返回区间内取值个数（1..256）。
func (b Bound) Size() uint64 {
	return uint64(b.Upper) - uint64(b.Lower) + 1
}

// Contains 报告 v 是否落在区间内。
func (b Bound) Contains(v uint8) bool {
	return v >= b.Lower && v <= b.Upper
}

// IsSingle 报告区间是否只含一个值。
func (b Bound) IsSingle() bool {
	return b.Lower == b.Upper
}

// String 返回可被 [ParseBound] 还原的文本："7" 或 "10-20"。
func (b Bound) String() string {
	if b.IsSingle() {
		return strconv.Itoa(int(b.Lower))
	}
	return strconv.Itoa(int(b.Lower)) + "-" + strconv.Itoa(int(b.Upper))
}

// MarshalText 实现 encoding.TextMarshaler 接口。
func (b Bound) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler 接口，
// 便于从 YAML/JSON 配置直接反序列化。
func (b *Bound) UnmarshalText(data []byte) error {
	parsed, err := ParseBound(string(data))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
