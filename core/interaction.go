package core

import "strconv"

// InteractionRecord 是单个用户的历史交互：文章 ID 序列与点击次数序列按位置一一对应。
//
// Clicks 保留原始字符串，解析与校验由 train 包完成：
// 长度不一致或包含非整数点击数的记录会被整条丢弃。
type InteractionRecord struct {
	UserID  string
	History []string
	Clicks  []string
}

// NewInteractionRecord 用整数点击数构建记录，便于测试与程序化输入。
func NewInteractionRecord(userID string, history []string, clicks []int) InteractionRecord {
	raw := make([]string, len(clicks))
	for i, c := range clicks {
		raw[i] = strconv.Itoa(c)
	}
	return InteractionRecord{UserID: userID, History: history, Clicks: raw}
}
