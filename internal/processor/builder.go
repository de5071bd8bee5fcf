package processor

import (
	"strings"

	"resume-fields/internal/types"
)

// displaySeparator 列表字段展示时的分隔符
const displaySeparator = ", "

// BuildRecord 把字段提取结果组装为一行记录
// 空列表替换为 "Not found"
func BuildRecord(path, name string, emails, phones, skills []string) types.Record {
	return types.Record{
		File:   path,
		Name:   name,
		Emails: joinOrNotFound(emails),
		Phones: joinOrNotFound(phones),
		Skills: joinOrNotFound(skills),
	}
}

// BuildRecordFromFields BuildRecord 的便捷形式
func BuildRecordFromFields(path string, f types.Fields) types.Record {
	return BuildRecord(path, f.Name, f.Emails, f.Phones, f.Skills)
}

// ErrorRecord 处理失败时的替代记录，错误信息放在 Skills 列
func ErrorRecord(path string, err error) types.Record {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return types.Record{
		File:   path,
		Name:   types.ErrorValue,
		Emails: types.ErrorValue,
		Phones: types.ErrorValue,
		Skills: types.ErrorValue + ": " + msg,
	}
}

func joinOrNotFound(items []string) string {
	if len(items) == 0 {
		return types.NotFound
	}
	return strings.Join(items, displaySeparator)
}

// ParsePathList 按逗号切分路径列表并去掉每项首尾空白
// 空项保留，由后续处理产生错误行
func ParsePathList(input string) []string {
	parts := strings.Split(input, ",")
	paths := make([]string, len(parts))
	for i, p := range parts {
		paths[i] = strings.TrimSpace(p)
	}
	return paths
}
