// Package store 提供宿主持有的双槽快照：
// pristine 保存最近一次完整重新海报化的结果，
// current 是透明度编辑作用的工作副本，可随时整体回退
package store

import (
	pstypes "github.com/KJLJon/Posterize-Image/type"
)

// Store 保存 current 与 pristine 两个缓冲区槽位
type Store struct {
	current  *pstypes.PixelBuffer
	pristine *pstypes.PixelBuffer
}

// New 以映射结果初始化两个槽位
func New(mapped *pstypes.PixelBuffer) *Store {
	return &Store{
		current:  mapped,
		pristine: mapped.Clone(),
	}
}

// Current 返回工作副本
func (s *Store) Current() *pstypes.PixelBuffer {
	return s.current
}

// Apply 用一次擦除操作的结果替换工作副本
func (s *Store) Apply(buf *pstypes.PixelBuffer) {
	s.current = buf
}

// Revert 丢弃工作副本，恢复到 pristine 快照，无需重新量化
func (s *Store) Revert() *pstypes.PixelBuffer {
	s.current = s.pristine.Clone()
	return s.current
}

// Reset 在重新海报化后刷新两个槽位
func (s *Store) Reset(mapped *pstypes.PixelBuffer) {
	s.current = mapped
	s.pristine = mapped.Clone()
}
