package config

type Config struct {
	UploadDir     string       `json:"upload_dir"`
	PublicBaseURL string       `json:"public_base_url"` // 持久图片 URL 前缀,如 http://host:8080/blobs
	StyleFile     string       `json:"style_file"`      // 提示词/策展指令资源文件
	JWTSecret     string       `json:"jwt_secret"`
	Redis         RedisConfig  `json:"redis"`
	OpenAI        OpenAIConfig `json:"openai"`
	Port          string       `json:"port"`
	TopTags       struct {
		Limit           int `json:"limit"`
		RefreshInterval int `json:"refresh_interval"`
	} `json:"top_tags"`
	RateLimit struct {
		Requests int `json:"requests"`
		Duration int `json:"duration"`
	} `json:"rate_limit"`
	Retry struct {
		MaxAttempts    int `json:"max_attempts"`
		BackoffSeconds int `json:"backoff_seconds"`
	} `json:"retry"`
}

type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	PoolSize int    `json:"pool_size"`
}

type OpenAIConfig struct {
	APIKey      string `json:"api_key"`
	BaseURL     string `json:"base_url"`
	TextModel   string `json:"text_model"`
	ImageModel  string `json:"image_model"`
	VisionModel string `json:"vision_model"`
}
