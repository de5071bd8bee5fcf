package types

// 字段缺失或处理失败时使用的占位值
const (
	NameNotFound = "Name not found" // 前5行均为空时的姓名占位
	NotFound     = "Not found"      // 邮箱/电话/技能为空时的占位
	ErrorValue   = "Error"          // 处理失败时的占位
)

// 报表列名，顺序固定
const (
	HeaderFile   = "File"
	HeaderName   = "Name"
	HeaderEmails = "Emails"
	HeaderPhones = "Phones"
	HeaderSkills = "Skills"
)

// Headers 返回报表列名（按固定顺序）
func Headers() []string {
	return []string{HeaderFile, HeaderName, HeaderEmails, HeaderPhones, HeaderSkills}
}

// Fields 字段提取器的原始输出，尚未做展示拼接
type Fields struct {
	Name   string
	Emails []string
	Phones []string
	Skills []string
}

// Record 一个输入文件对应的一行输出
// 构建后不再修改
type Record struct {
	File   string `json:"File"`
	Name   string `json:"Name"`
	Emails string `json:"Emails"`
	Phones string `json:"Phones"`
	Skills string `json:"Skills"`
}

// Row 按 Headers() 的顺序返回单元格
func (r Record) Row() []string {
	return []string{r.File, r.Name, r.Emails, r.Phones, r.Skills}
}

// IsError 判断是否为错误记录
func (r Record) IsError() bool {
	return r.Name == ErrorValue && r.Emails == ErrorValue && r.Phones == ErrorValue
}
