package constants

const (
	// 服务级常量
	ServiceName    = "resume-parser-go"
	ServiceVersion = "1.0"

	// DefaultMaxUploadBytes 未配置时单个上传文件的大小上限
	DefaultMaxUploadBytes = 10 << 20

	// PreviewRunes 结果中 text_preview 的最大字符数
	PreviewRunes = 500

	// HTTP 路由与表单字段
	ParseResumePath = "/parse-resume"
	HealthPath      = "/health"
	UploadFormField = "file"
)
