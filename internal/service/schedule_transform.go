package service

import (
	"sort"

	"github.com/google/uuid"

	"github.com/mathraaj222-gif/trainmice-mvp-production/internal/model"
)

// ── 课程表双向变换 ────────────────────────────────────────────
//
// 扁平持久化形态（每模块一行）与层级编辑形态（天 → 节次 → 模块 →
// 子模块列表）之间的核心变换。
//
// 设计决策：
//   - 分组骨架始终按模板生成：即使没有任何数据行，编辑视图也要
//     呈现完整的节次框架
//   - 一行数据 = 一个模块节点，分组时不按标题合并。模块身份不是
//     内容寻址的（不同导入批次留下的同键行由编辑者手工取舍）
//   - 不在当前模板内的行在分组视图中不可见，下次保存时会被丢弃。
//     这是对历史行为的保真复刻，已知的有损边界（见 Regroup）
//   - 树上的变异操作都是纯函数：克隆后修改，输入树不被触碰
// ─────────────────────────────────────────────────────────────

// sessionDurationMinutes 节次长度由模板定义，压平时固定写入 120
// 而不按起止时间重算
const sessionDurationMinutes = 120

// SessionKey 分组键：(第几天, 开始时间)
type SessionKey struct {
	DayNumber int
	StartTime string
}

// ModuleNode 层级形态中的模块节点
// ModuleID 在一次编辑会话内保持稳定，用于前端编辑状态定位；
// 编辑期间允许空标题与空子模块列表
type ModuleNode struct {
	ModuleID   string   `json:"module_id"`
	Title      string   `json:"title"`
	Submodules []string `json:"submodules"`
}

// SessionNode 层级形态中的节次节点
type SessionNode struct {
	DayNumber       int          `json:"day_number"`
	Name            string       `json:"name"`
	StartTime       string       `json:"start_time"`
	EndTime         string       `json:"end_time"`
	DurationMinutes int          `json:"duration_minutes"`
	Modules         []ModuleNode `json:"modules"`
}

// TimetableTree 一门课程的层级课程表（临时结构）
// 每次加载时从扁平行重新构建，压平保存后即丢弃；
// 由单个进行中的编辑/导入操作独占持有，不跨操作共享
type TimetableTree struct {
	Template SessionTemplate
	Sessions map[SessionKey]*SessionNode
}

// GroupEntries 将扁平行分组为层级课程表
//
// 1. 先按模板为第 1..DayCount 天的每个节次建立空骨架
// 2. 再将每行挂入 (day_number, start_time) 对应的节次，
//    键不在模板内的行被静默丢弃（模板变更后的陈旧数据）
func GroupEntries(entries []model.ScheduleEntry, tmpl SessionTemplate) *TimetableTree {
	tree := &TimetableTree{
		Template: tmpl,
		Sessions: make(map[SessionKey]*SessionNode, tmpl.DayCount*len(tmpl.Slots)),
	}

	for day := 1; day <= tmpl.DayCount; day++ {
		for _, slot := range tmpl.Slots {
			key := SessionKey{DayNumber: day, StartTime: slot.StartTime}
			tree.Sessions[key] = &SessionNode{
				DayNumber:       day,
				Name:            slot.Name,
				StartTime:       slot.StartTime,
				EndTime:         slot.EndTime,
				DurationMinutes: ClockDurationMinutes(slot.StartTime, slot.EndTime),
				Modules:         []ModuleNode{},
			}
		}
	}

	for _, entry := range entries {
		key := SessionKey{DayNumber: entry.DayNumber, StartTime: entry.StartTime}
		sess, ok := tree.Sessions[key]
		if !ok {
			continue // 模板外的陈旧行，不进入编辑视图
		}
		sess.Modules = append(sess.Modules, ModuleNode{
			ModuleID:   moduleIDForEntry(entry),
			Title:      entry.ModuleTitle,
			Submodules: cloneStrings(entry.Submodules),
		})
	}

	return tree
}

// RegroupEntries 模板变更后的显式重分组
// 与 GroupEntries 相同，但把落在模板外、将在下次保存时丢失的行
// 一并返回给调用方（保存前的可见性保障）
func RegroupEntries(entries []model.ScheduleEntry, tmpl SessionTemplate) (*TimetableTree, []model.ScheduleEntry) {
	tree := GroupEntries(entries, tmpl)

	var dropped []model.ScheduleEntry
	for _, entry := range entries {
		key := SessionKey{DayNumber: entry.DayNumber, StartTime: entry.StartTime}
		if _, ok := tree.Sessions[key]; !ok {
			dropped = append(dropped, entry)
		}
	}
	return tree, dropped
}

// Flatten 将层级课程表压平为待持久化的扁平行
//
// 每个模块节点一行；空标题模块保留（是否丢弃由调用方决策）。
// 行不携带 entry_id：保存是整表替换，新行由存储层重新赋予身份。
// 往返律：对键全部落在模板内的输入行，
// Flatten(GroupEntries(entries)) 的 (天, 时间, 标题, 子模块) 多重集
// 与输入一致。
func (t *TimetableTree) Flatten() []model.ScheduleEntry {
	var out []model.ScheduleEntry
	for _, sess := range t.OrderedSessions() {
		for _, mod := range sess.Modules {
			out = append(out, model.ScheduleEntry{
				DayNumber:       sess.DayNumber,
				StartTime:       sess.StartTime,
				EndTime:         sess.EndTime,
				ModuleTitle:     mod.Title,
				Submodules:      model.StringArray(cloneStrings(mod.Submodules)),
				DurationMinutes: sessionDurationMinutes,
			})
		}
	}
	return out
}

// OrderedSessions 按 (天, 开始时间) 排序的节次列表
func (t *TimetableTree) OrderedSessions() []*SessionNode {
	keys := make([]SessionKey, 0, len(t.Sessions))
	for k := range t.Sessions {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].DayNumber != keys[j].DayNumber {
			return keys[i].DayNumber < keys[j].DayNumber
		}
		return keys[i].StartTime < keys[j].StartTime
	})

	out := make([]*SessionNode, 0, len(keys))
	for _, k := range keys {
		out = append(out, t.Sessions[k])
	}
	return out
}

// ── 纯变异操作（克隆后修改，输入树不变） ──

// AddModule 向指定节次追加一个空模块
// 键不在树内时原样返回克隆（容忍无效操作）
func (t *TimetableTree) AddModule(key SessionKey) *TimetableTree {
	next := t.Clone()
	if sess, ok := next.Sessions[key]; ok {
		sess.Modules = append(sess.Modules, ModuleNode{
			ModuleID:   uuid.New().String(),
			Title:      "",
			Submodules: []string{},
		})
	}
	return next
}

// RemoveModule 按模块 ID 从节次中移除模块
// 是否保留最少模块数属于界面层业务策略，变换层不做限制
func (t *TimetableTree) RemoveModule(key SessionKey, moduleID string) *TimetableTree {
	next := t.Clone()
	if sess, ok := next.Sessions[key]; ok {
		kept := sess.Modules[:0]
		for _, mod := range sess.Modules {
			if mod.ModuleID != moduleID {
				kept = append(kept, mod)
			}
		}
		sess.Modules = kept
	}
	return next
}

// UpdateModuleTitle 更新模块标题
func (t *TimetableTree) UpdateModuleTitle(key SessionKey, moduleID, title string) *TimetableTree {
	next := t.Clone()
	if mod := next.findModule(key, moduleID); mod != nil {
		mod.Title = title
	}
	return next
}

// AddSubmodule 向模块追加子模块
func (t *TimetableTree) AddSubmodule(key SessionKey, moduleID, text string) *TimetableTree {
	next := t.Clone()
	if mod := next.findModule(key, moduleID); mod != nil {
		mod.Submodules = append(mod.Submodules, text)
	}
	return next
}

// UpdateSubmodule 更新指定下标的子模块，下标越界时不做任何事
func (t *TimetableTree) UpdateSubmodule(key SessionKey, moduleID string, index int, text string) *TimetableTree {
	next := t.Clone()
	if mod := next.findModule(key, moduleID); mod != nil {
		if index >= 0 && index < len(mod.Submodules) {
			mod.Submodules[index] = text
		}
	}
	return next
}

// RemoveSubmodule 移除指定下标的子模块，下标越界时不做任何事
func (t *TimetableTree) RemoveSubmodule(key SessionKey, moduleID string, index int) *TimetableTree {
	next := t.Clone()
	if mod := next.findModule(key, moduleID); mod != nil {
		if index >= 0 && index < len(mod.Submodules) {
			mod.Submodules = append(mod.Submodules[:index], mod.Submodules[index+1:]...)
		}
	}
	return next
}

// Clone 深拷贝整棵树
func (t *TimetableTree) Clone() *TimetableTree {
	next := &TimetableTree{
		Template: t.Template,
		Sessions: make(map[SessionKey]*SessionNode, len(t.Sessions)),
	}
	next.Template.Slots = cloneSlots(t.Template.Slots)

	for key, sess := range t.Sessions {
		copied := *sess
		copied.Modules = make([]ModuleNode, len(sess.Modules))
		for i, mod := range sess.Modules {
			copied.Modules[i] = ModuleNode{
				ModuleID:   mod.ModuleID,
				Title:      mod.Title,
				Submodules: cloneStrings(mod.Submodules),
			}
		}
		next.Sessions[key] = &copied
	}
	return next
}

func (t *TimetableTree) findModule(key SessionKey, moduleID string) *ModuleNode {
	sess, ok := t.Sessions[key]
	if !ok {
		return nil
	}
	for i := range sess.Modules {
		if sess.Modules[i].ModuleID == moduleID {
			return &sess.Modules[i]
		}
	}
	return nil
}

// moduleIDForEntry 模块 ID 优先复用持久化行 ID，保证编辑状态稳定
func moduleIDForEntry(entry model.ScheduleEntry) string {
	if entry.EntryID != "" {
		return entry.EntryID
	}
	return uuid.New().String()
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
