// Package design 实现对话式建筑设计的编排逻辑
package design

import "blueprint-ai-api/internal/domain/entity"

// architectInstruction 建筑师模式系统指令：设计请求必须产出完整方案
const architectInstruction = `You are an expert AI architect. When the user describes a building or asks ` +
	`for a design, you MUST generate a complete plan bundle in a single response: one 2D floor-plan ` +
	`blueprint per story of the building, followed by exactly one 3D exterior rendering as the final ` +
	`image. Hard rules: all 2D floor blueprints come before the single 3D image; the number of floor ` +
	`plans must match the number of stories the user's request implies (ground floor first, ascending); ` +
	`the 3D rendering must be visually consistent with the 2D layouts in footprint, openings and roof ` +
	`shape. Blueprints are clean top-down architectural drawings with walls, doors, windows, room labels ` +
	`and dimensions. Accompany the images with a short textual summary of the design.`

// chatInstruction 对话模式系统指令：仅在用户明确要求时产出方案
const chatInstruction = `You are a friendly AI architect having a conversation about buildings and design. ` +
	`Answer questions conversationally. Only generate images when the user explicitly asks for a design, ` +
	`plan, blueprint or rendering. When you do generate a design, emit one 2D floor-plan blueprint per ` +
	`story (ground floor first, ascending) followed by exactly one 3D exterior rendering as the final ` +
	`image, and keep the 3D rendering visually consistent with the 2D layouts.`

// interiorInstruction 室内探索指令：推断标记点的房间功能并渲染第一人称室内视图
const interiorInstruction = `The attached image is a 2D floor-plan blueprint with a marker dot drawn on ` +
	`it. Infer the function of the room at the marked position from the plan's layout and labels, then ` +
	`render a single photorealistic first-person interior view of that room, furnished appropriately for ` +
	`its function and consistent with the plan's dimensions, doors and windows. Output exactly one image ` +
	`and no text.`

// revisionInstruction 标注修订指令：笔迹仅作位置指示，输出固定为两张图
const revisionInstruction = `The attached image is a 2D floor-plan blueprint with freehand marks drawn on ` +
	`it by the user. The marks are location indicators only, NOT content to preserve: never reproduce the ` +
	`drawn strokes in your output. Apply the user's requested change at the marked locations. Do not ` +
	`change anything that was not explicitly requested. Output exactly two images in this fixed order: ` +
	`first the revised 2D blueprint (clean, without the user's marks), then the revised 3D exterior ` +
	`rendering consistent with it.`

// instructionFor 返回生成模式对应的系统指令
func instructionFor(mode entity.GenerationMode) string {
	if mode == entity.ModeArchitect {
		return architectInstruction
	}
	return chatInstruction
}

// fallbackText 有候选但既无文本也无图像时的兜底回复
const fallbackText = "I couldn't generate a design from that. Could you rephrase your request?"

// apologyText 生成失败时追加到日志的致歉回合文本
const apologyText = "Sorry, something went wrong while generating your design. Please try again."

// LoadingPhases 渲染层循环展示的阶段文案
var LoadingPhases = []string{
	"Sketching the floor plan...",
	"Placing walls and windows...",
	"Checking the room layout...",
	"Raising the 3D model...",
	"Rendering the exterior...",
	"Polishing the details...",
}
