package fields

import (
	"strings"
	"testing"

	"resume-parser-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractEmail(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
		found    bool
	}{
		{"单个邮箱", "Contact: jane.doe@example.com for info", "jane.doe@example.com", true},
		{"多个邮箱取第一个", "a.b@first.io, c@second.org", "a.b@first.io", true},
		{"带加号和百分号", "mail me: john+jobs%x@mail.co.uk", "john+jobs%x@mail.co.uk", true},
		{"顶级域名过短", "broken@host.c", "", false},
		{"没有邮箱", "no contact info here", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractEmail(tc.text)
			if !tc.found {
				assert.Nil(t, got, "不应提取到邮箱")
				return
			}
			require.NotNil(t, got, "应提取到邮箱")
			assert.Equal(t, tc.expected, *got)
		})
	}
}

func TestExtractPhone(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected *types.PhoneNumber
	}{
		{"括号区号", "Call (555) 123-4567", &types.PhoneNumber{AreaCode: "555", Exchange: "123", Line: "4567"}},
		{"点分隔", "Phone: 555.987.6543", &types.PhoneNumber{AreaCode: "555", Exchange: "987", Line: "6543"}},
		{"带国家码", "Tel +1 212-555-0199", &types.PhoneNumber{AreaCode: "212", Exchange: "555", Line: "0199"}},
		{"无分隔符", "mobile 4155550123 ok", &types.PhoneNumber{AreaCode: "415", Exchange: "555", Line: "0123"}},
		{"多个号码取第一个", "(111) 222-3333 or (444) 555-6666", &types.PhoneNumber{AreaCode: "111", Exchange: "222", Line: "3333"}},
		{"没有号码", "no number here", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExtractPhone(tc.text))
		})
	}
}

func TestExtractSkills(t *testing.T) {
	t.Run("不区分大小写且按目录顺序", func(t *testing.T) {
		text := "Built services with docker, KUBERNETES and python; some sql."
		assert.Equal(t, []string{"Python", "SQL", "Docker", "Kubernetes"}, ExtractSkills(text))
	})

	t.Run("子串匹配会同时命中Java和JavaScript", func(t *testing.T) {
		skills := ExtractSkills("Senior JavaScript engineer")
		assert.ElementsMatch(t, []string{"Java", "JavaScript"}, skills)
	})

	t.Run("重复出现只返回一次", func(t *testing.T) {
		skills := ExtractSkills("React react REACT")
		assert.Equal(t, []string{"React"}, skills)
	})

	t.Run("没有技能返回空集合", func(t *testing.T) {
		skills := ExtractSkills("carpentry and plumbing")
		require.NotNil(t, skills, "空结果应为空切片而非nil")
		assert.Empty(t, skills)
	})

	t.Run("结果总是技能目录的子集", func(t *testing.T) {
		text := strings.Join(SkillCatalog(), " ") + " Rust Elixir"
		skills := ExtractSkills(text)
		assert.Subset(t, SkillCatalog(), skills)
		assert.Len(t, skills, len(SkillCatalog()))
	})
}

func TestExtractExperience(t *testing.T) {
	tests := []struct {
		text     string
		expected int
	}{
		{"3 years of experience", 3},
		{"no mention", 0},
		{"Over 12 yrs exp in backend", 12},
		{"1 year experience, later 5 years of experience", 1},
		{"7 YEARS OF EXPERIENCE", 7},
		{"99999999999999999999999 years of experience", 0},
	}

	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExtractExperience(tc.text))
		})
	}
}

func TestExtractGPA(t *testing.T) {
	tests := []struct {
		text     string
		expected float64
		found    bool
	}{
		{"CGPA: 3.75/4.0", 3.75, true},
		{"GPA - 3.9", 3.9, true},
		{"gpa 4", 4, true},
		{"Graduated with honors", 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			got := ExtractGPA(tc.text)
			if !tc.found {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, tc.expected, *got, 1e-9)
		})
	}
}

func TestExtractMasters(t *testing.T) {
	inProgress := types.MastersInProgress
	completed := types.MastersCompleted

	tests := []struct {
		name     string
		text     string
		expected *types.MastersStatus
	}{
		{"在读", "Currently pursuing M.S. in Computer Science", &inProgress},
		{"已完成", "Completed MBA in 2019", &completed},
		{"无学位", "Bachelor's degree only", nil},
		{"两类指示词都没有时视为完成", "Master of Science, Stanford", &completed},
		{"进行中指示词优先", "Master's degree completed; PhD ongoing", &inProgress},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ExtractMasters(tc.text))
		})
	}
}

func TestMatchedDegreePhrase_CatalogOrder(t *testing.T) {
	// 文本中 MBA 先出现，但目录中 master's 排在前面
	phrase, ok := MatchedDegreePhrase("MBA (2015), then a Master's in Finance")
	require.True(t, ok)
	assert.Equal(t, "master's", phrase)
}

func TestExtractorsAreDeterministic(t *testing.T) {
	text := "Jane Roe jane@roe.dev (555) 123-4567 5 years of experience GPA: 3.8 pursuing MBA Python AWS"
	for i := 0; i < 3; i++ {
		assert.Equal(t, ExtractEmail(text), ExtractEmail(text))
		assert.Equal(t, ExtractPhone(text), ExtractPhone(text))
		assert.Equal(t, ExtractSkills(text), ExtractSkills(text))
		assert.Equal(t, ExtractExperience(text), ExtractExperience(text))
		assert.Equal(t, ExtractGPA(text), ExtractGPA(text))
		assert.Equal(t, ExtractMasters(text), ExtractMasters(text))
	}
}

func TestCatalogCopiesAreIsolated(t *testing.T) {
	catalog := SkillCatalog()
	require.Len(t, catalog, 23)
	catalog[0] = "COBOL"
	assert.Equal(t, "Python", SkillCatalog()[0], "修改副本不应影响全局目录")

	phrases := DegreePhrases()
	phrases[0] = "x"
	assert.NotEqual(t, "x", DegreePhrases()[0])
}
