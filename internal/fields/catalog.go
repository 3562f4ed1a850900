package fields

// skillCatalog 已识别技能列表，顺序即返回顺序
var skillCatalog = []string{
	"Python", "Java", "JavaScript", "React", "Node.js", "SQL", "MongoDB",
	"AWS", "Docker", "Kubernetes", "Git", "REST API", "GraphQL",
	"HTML", "CSS", "TypeScript", "Express", "Django", "Flask",
	"Machine Learning", "Data Science", "TensorFlow", "Pandas",
}

// degreePhrases 硕士学位指示短语（小写），按此顺序取第一个命中项，而非文本顺序
var degreePhrases = []string{
	"master's",
	"masters",
	"master of",
	"m.s.",
	"m.sc",
	"msc",
	"m.tech",
	"m.eng",
	"mba",
	"postgraduate",
	"post-graduate",
	"post graduate",
}

// progressIndicators 在读指示词，命中任意一个即为 in_progress
var progressIndicators = []string{"in progress", "pursuing", "current", "ongoing"}

// completionIndicators 完成指示词
var completionIndicators = []string{"completed", "finished", "obtained", "earned"}

// SkillCatalog 返回技能目录的副本
func SkillCatalog() []string {
	return append([]string(nil), skillCatalog...)
}

// DegreePhrases 返回学位短语目录的副本
func DegreePhrases() []string {
	return append([]string(nil), degreePhrases...)
}
