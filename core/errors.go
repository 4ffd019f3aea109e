package core

import (
	"errors"
	"fmt"
)

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX），可穿透 fmt.Errorf("%w") 包装
//
// 使用场景：
//   - Bandit 错误：INVALID_ARGUMENT, INDEX_OUT_OF_RANGE
//   - Train 错误：RECORD_SKIPPED（非致命，仅用于日志与统计）
//   - Store / Dataset 错误：NOT_FOUND, NOT_SUPPORTED
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "INDEX_OUT_OF_RANGE"）
	Message string // 错误消息
	Module  string // 模块名称（如 "bandit", "store", "dataset"）
	Cause   error  // 原始错误（可选）
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is 让 errors.Is 按 Module + Code 比较，便于与哨兵错误（如 ErrStoreNotFound）匹配。
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Module == t.Module && e.Code == t.Code
}

// IsDomainError 检查错误是否为 DomainError 类型
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// Errorf 创建带格式化消息的领域错误。
func Errorf(module, code, format string, args ...any) *DomainError {
	return NewDomainError(module, code, fmt.Sprintf(format, args...))
}

// Wrap 用领域错误包装底层错误，保留 cause 供 errors.Is / errors.As 使用。
func Wrap(module, code, message string, cause error) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// 错误代码常量
const (
	// 通用错误代码
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeUnavailable   = "UNAVAILABLE"    // 服务不可用
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误

	// Bandit / 训练相关
	ErrorCodeInvalidArgument = "INVALID_ARGUMENT"   // 参数非法，例如臂数 <= 0
	ErrorCodeOutOfRange      = "INDEX_OUT_OF_RANGE" // 臂索引越界
	ErrorCodeRecordSkipped   = "RECORD_SKIPPED"     // 整条交互记录被丢弃（非致命）
)

// 模块名称常量
const (
	ModuleBandit    = "bandit"
	ModuleMapping   = "mapping"
	ModuleTrain     = "train"
	ModuleRecommend = "recommend"
	ModuleStore     = "store"
	ModuleDataset   = "dataset"
	ModuleModel     = "model"
)

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool { return hasCode(err, ErrorCodeNotFound) }

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool { return hasCode(err, ErrorCodeNotSupported) }

// IsUnavailable 检查错误是否为 UNAVAILABLE
func IsUnavailable(err error) bool { return hasCode(err, ErrorCodeUnavailable) }

// IsInvalidArgument 检查错误是否为 INVALID_ARGUMENT
func IsInvalidArgument(err error) bool { return hasCode(err, ErrorCodeInvalidArgument) }

// IsOutOfRange 检查错误是否为 INDEX_OUT_OF_RANGE
func IsOutOfRange(err error) bool { return hasCode(err, ErrorCodeOutOfRange) }

// IsRecordSkipped 检查错误是否为 RECORD_SKIPPED
func IsRecordSkipped(err error) bool { return hasCode(err, ErrorCodeRecordSkipped) }
