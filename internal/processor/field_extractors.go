package processor

import (
	"resume-parser-go/internal/fields"
	"resume-parser-go/internal/types"
)

// DefaultFieldExtractors 返回六个标准字段提取器
func DefaultFieldExtractors() []FieldExtractor {
	return []FieldExtractor{
		{Name: "email", Apply: func(text string, r *types.ExtractionResult) {
			r.Email = fields.ExtractEmail(text)
		}},
		{Name: "phone", Apply: func(text string, r *types.ExtractionResult) {
			r.Phone = fields.ExtractPhone(text)
		}},
		{Name: "skills", Apply: func(text string, r *types.ExtractionResult) {
			r.Skills = fields.ExtractSkills(text)
		}},
		{Name: "experience_years", Apply: func(text string, r *types.ExtractionResult) {
			r.ExperienceYears = fields.ExtractExperience(text)
		}},
		{Name: "gpa", Apply: func(text string, r *types.ExtractionResult) {
			r.GPA = fields.ExtractGPA(text)
		}},
		{Name: "masters_status", Apply: func(text string, r *types.ExtractionResult) {
			r.MastersStatus = fields.ExtractMasters(text)
		}},
	}
}
