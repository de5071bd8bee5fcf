// Package fields 从简历纯文本中提取姓名、联系方式与技能。
// 所有规则都是尽力而为的启发式匹配，不保证正确性：
//   - 姓名取前5行中第一个非空行；
//   - 技能按小写子串匹配，不检查词边界，"JavaScript" 会同时命中 "Java"。
package fields

import (
	"regexp"
	"strings"

	"resume-fields/internal/types"
)

// 姓名只在前 nameScanLines 行中查找
const nameScanLines = 5

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`)
	// RE2 的 \d、\b 只认 ASCII，\s 不含 \v；全角数字不会被匹配
	phonePattern = regexp.MustCompile(`\b(?:\+?\d{1,3})?[-.\s]?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`)
)

// skillVocabulary 固定的技能词表，顺序即输出顺序，运行期不修改
var skillVocabulary = [...]string{
	"Python", "Java", "SQL", "C++", "HTML", "CSS", "JavaScript", "Excel", "Linux",
}

// SkillVocabulary 返回技能词表的副本
func SkillVocabulary() []string {
	out := make([]string, len(skillVocabulary))
	copy(out, skillVocabulary[:])
	return out
}

// ExtractName 返回前5行中第一个去空白后非空的行
func ExtractName(text string) string {
	lines := splitLines(text)
	if len(lines) > nameScanLines {
		lines = lines[:nameScanLines]
	}
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return types.NameNotFound
}

// ExtractContactInfo 按出现顺序返回全部邮箱与电话匹配，不去重、不归一化
func ExtractContactInfo(text string) (emails, phones []string) {
	return emailPattern.FindAllString(text, -1), phonePattern.FindAllString(text, -1)
}

// ExtractSkills 按词表顺序返回出现在文本中的技能
func ExtractSkills(text string) []string {
	lower := strings.ToLower(text)
	var skills []string
	for _, skill := range skillVocabulary {
		if strings.Contains(lower, strings.ToLower(skill)) {
			skills = append(skills, skill)
		}
	}
	return skills
}

// Extract 依次运行全部字段提取器
func Extract(text string) types.Fields {
	emails, phones := ExtractContactInfo(text)
	return types.Fields{
		Name:   ExtractName(text),
		Emails: emails,
		Phones: phones,
		Skills: ExtractSkills(text),
	}
}

// splitLines 按通用行边界切分，末尾的换行不产生空行
func splitLines(text string) []string {
	var lines []string
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '\r':
			lines = append(lines, string(runes[start:i]))
			if i+1 < len(runes) && runes[i+1] == '\n' {
				i++
			}
			start = i + 1
		case '\n', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
			lines = append(lines, string(runes[start:i]))
			start = i + 1
		}
	}
	if start < len(runes) {
		lines = append(lines, string(runes[start:]))
	}
	return lines
}
