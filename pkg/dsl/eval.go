package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/fiyolabs/feedkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("candidate", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("fctx", cel.DynType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// Eval 是候选规则解释器，使用 CEL (Common Expression Language) 实现。
// 用于配置驱动的候选过滤/治理规则，例如按策略来源或分数筛选。
//
// 表达式语法（CEL 标准语法）：
//   - 基础：label.strategy == "mates" / candidate.strategy_name != "recent"
//   - 数值：candidate.score > 50.0
//   - 逻辑：label.strategy == "trending" && candidate.score > 20.0
//   - 包含：label.strategy.contains("mates")
//
// 注意：has(label.key) 可以用 label.key != null 替代
type Eval struct {
	candidate *core.Candidate
	fctx      *core.FeedContext
	env       *cel.Env
}

// NewEval 创建一个新的规则解释器。
func NewEval(candidate *core.Candidate, fctx *core.FeedContext) *Eval {
	env, _ := getCELEnv()
	return &Eval{
		candidate: candidate,
		fctx:      fctx,
		env:       env,
	}
}

// Evaluate 解析并执行规则表达式，返回布尔结果。空表达式恒为 true。
func (e *Eval) Evaluate(expr string) (bool, error) {
	if expr == "" {
		return true, nil
	}
	if e.env == nil {
		return false, fmt.Errorf("cel env not initialized")
	}

	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("compile error: %v", issues.Err())
	}

	prg, err := e.env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("program error: %v", err)
	}

	out, _, err := prg.Eval(e.buildInput())
	if err != nil {
		// 访问不存在的 key 时 CEL 返回错误；用 label.key != null 检查存在性
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}

	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func (e *Eval) buildInput() map[string]any {
	labels := make(map[string]any)
	labelAccessor := make(map[string]any)
	for k, v := range e.candidate.Labels {
		labels[k] = map[string]any{
			"value":  v.Value,
			"source": v.Source,
		}
		// label.strategy 直接取 value，便于写短表达式
		labelAccessor[k] = v.Value
	}

	candidate := map[string]any{
		"id":              e.candidate.ID,
		"author_id":       e.candidate.AuthorID,
		"score":           e.candidate.Score,
		"strategy_name":   e.candidate.StrategyName,
		"strategy_weight": e.candidate.StrategyWeight,
		"labels":          labels,
	}

	fctx := map[string]any{}
	if e.fctx != nil {
		fctx["user_id"] = e.fctx.UserID
		fctx["content_type"] = string(e.fctx.ContentType)
		fctx["params"] = e.fctx.Params
	}

	return map[string]any{
		"candidate": candidate,
		"label":     labelAccessor,
		"fctx":      fctx,
	}
}
