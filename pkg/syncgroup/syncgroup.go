package syncgroup

import (
	"context"
	"sync"
)

// Func 组内执行的函数
type Func func() error

// SyncGroup 包装 sync.WaitGroup，自动管理 Add/Done，并保留第一个错误
type SyncGroup struct {
	wg sync.WaitGroup

	mu      sync.Mutex
	funcs   []Func
	running bool
	err     error
	cancel  context.CancelFunc
}

// NewSyncGroup 创建新的 SyncGroup
func NewSyncGroup() *SyncGroup {
	return &SyncGroup{}
}

// WithContext 创建与 ctx 绑定的 SyncGroup
//
// 任一函数返回错误时取消返回的 ctx，其余函数应使用该 ctx 以便尽早退出。
// Wait 返回后 ctx 也会被取消，因此该组只能运行一次。
func WithContext(ctx context.Context) (*SyncGroup, context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	return &SyncGroup{cancel: cancel}, ctx
}

// Add 添加一个函数；运行期间添加的函数会被忽略
func (w *SyncGroup) Add(fn Func) {
	if fn == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.funcs = append(w.funcs, fn)
}

// Run 并发启动所有已添加的函数
func (w *SyncGroup) Run() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	fns := w.funcs
	w.funcs = nil
	w.running = true
	w.err = nil
	w.wg.Add(len(fns))
	w.mu.Unlock()

	for _, fn := range fns {
		go func(doFunc Func) {
			defer w.wg.Done()
			if err := doFunc(); err != nil {
				w.mu.Lock()
				if w.err == nil {
					w.err = err
					if w.cancel != nil {
						w.cancel()
					}
				}
				w.mu.Unlock()
			}
		}(fn)
	}
}

// Wait 等待全部完成，返回第一个错误；之后可以再次 Add/Run
func (w *SyncGroup) Wait() error {
	w.wg.Wait()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.running = false
	if w.cancel != nil {
		w.cancel()
	}
	return w.err
}
