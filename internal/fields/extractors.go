// Package fields 实现基于正则和子串匹配的简历字段提取。
// 每个提取器都是纯函数，只读取传入的全文，彼此之间没有依赖。
package fields

import (
	"regexp"
	"strconv"
	"strings"

	"resume-parser-go/internal/types"
)

var (
	emailPattern      = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern      = regexp.MustCompile(`\b(?:\+?1[-.\s]?)?\(?([0-9]{3})\)?[-.\s]?([0-9]{3})[-.\s]?([0-9]{4})\b`)
	experiencePattern = regexp.MustCompile(`(?i)(\d+)\s*(?:years?|yrs?)\s*(?:of\s*)?(?:experience|exp)`)
	gpaPattern        = regexp.MustCompile(`(?i)(?:gpa|cgpa)\s*[:\-]?\s*(\d+(?:\.\d+)?)`)
)

// ExtractEmail 返回文本中第一个邮箱地址
func ExtractEmail(text string) *string {
	match := emailPattern.FindString(text)
	if match == "" {
		return nil
	}
	return &match
}

// ExtractPhone 返回第一个北美格式电话号码的三段数字
func ExtractPhone(text string) *types.PhoneNumber {
	groups := phonePattern.FindStringSubmatch(text)
	if groups == nil {
		return nil
	}
	return &types.PhoneNumber{
		AreaCode: groups[1],
		Exchange: groups[2],
		Line:     groups[3],
	}
}

// ExtractSkills 对技能目录逐项做不区分大小写的子串匹配。
// 结果按目录顺序排列，"Java" 也会命中 "JavaScript"。
func ExtractSkills(text string) []string {
	lower := strings.ToLower(text)
	found := make([]string, 0, len(skillCatalog))
	seen := make(map[string]struct{}, len(skillCatalog))
	for _, skill := range skillCatalog {
		if _, dup := seen[skill]; dup {
			continue
		}
		if strings.Contains(lower, strings.ToLower(skill)) {
			seen[skill] = struct{}{}
			found = append(found, skill)
		}
	}
	return found
}

// ExtractExperience 返回第一处 "N years of experience" 中的 N，未找到或溢出时返回0
func ExtractExperience(text string) int {
	groups := experiencePattern.FindStringSubmatch(text)
	if groups == nil {
		return 0
	}
	years, err := strconv.Atoi(groups[1])
	if err != nil {
		return 0
	}
	return years
}

// ExtractGPA 返回第一处 GPA/CGPA 数值
func ExtractGPA(text string) *float64 {
	groups := gpaPattern.FindStringSubmatch(text)
	if groups == nil {
		return nil
	}
	gpa, err := strconv.ParseFloat(groups[1], 64)
	if err != nil {
		return nil
	}
	return &gpa
}

// ExtractMasters 判断硕士学位状态。
// 进行中/已完成指示词在整篇文本中查找，而不是学位短语附近，
// 因此同时提到已完成学位和其他在读项目的简历会被判为 in_progress。
func ExtractMasters(text string) *types.MastersStatus {
	if _, ok := MatchedDegreePhrase(text); !ok {
		return nil
	}

	lower := strings.ToLower(text)
	var status types.MastersStatus
	switch {
	case containsAny(lower, progressIndicators):
		status = types.MastersInProgress
	case containsAny(lower, completionIndicators):
		status = types.MastersCompleted
	default:
		status = types.MastersCompleted
	}
	return &status
}

// MatchedDegreePhrase 返回目录中第一个出现在文本里的学位短语
func MatchedDegreePhrase(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, phrase := range degreePhrases {
		if strings.Contains(lower, phrase) {
			return phrase, true
		}
	}
	return "", false
}

func containsAny(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
