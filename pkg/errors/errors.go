package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突
// 带版本号的更新影响行数为 0 时返回，调用方提示用户刷新后重试
var ErrOptimisticLock = errors.New("记录已被并发修改，请刷新后重试")
