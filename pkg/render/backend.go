package render

import "log"

// Backend 表面的渲染路径
// 只有 *ShaderBackend 与 *CanvasBackend 两种实现，挂载时选定一次。
type Backend interface {
	Name() string
	isBackend()
}

// ShaderBackend 用编译好的 Kage 程序绘制程序化火焰
type ShaderBackend struct {
	Program *ShaderProgram
}

// CanvasBackend 在 CPU 画布上绘制辉光层与粒子
type CanvasBackend struct{}

func (*ShaderBackend) Name() string { return "shader" }
func (*CanvasBackend) Name() string { return "canvas" }

func (*ShaderBackend) isBackend() {}
func (*CanvasBackend) isBackend() {}

// CompileFunc 构建火焰着色器程序
type CompileFunc func() (*ShaderProgram, error)

// SelectBackend 尝试编译一次着色器
//
// forceCanvas 或任何编译失败都返回画布后端；失败只记录日志，不返回错误。
// compile 为 nil 时使用 NewShaderProgram。
func SelectBackend(forceCanvas bool, compile CompileFunc) Backend {
	if forceCanvas {
		log.Printf("[ShaderProgram] canvas fallback forced, skipping shader compile")
		return &CanvasBackend{}
	}
	if compile == nil {
		compile = NewShaderProgram
	}

	program, err := compile()
	if err != nil {
		log.Printf("[ShaderProgram] %v, using canvas fallback", err)
		return &CanvasBackend{}
	}
	if program == nil {
		log.Printf("[ShaderProgram] compile returned no program, using canvas fallback")
		return &CanvasBackend{}
	}
	return &ShaderBackend{Program: program}
}
