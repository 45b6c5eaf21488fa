package model

import (
	"github.com/yockii/bionic_reader/pkg/util"
	"gorm.io/gorm"
)

// 转换来源
const (
	ConversionSourceText  = "text"
	ConversionSourcePages = "pages"
	ConversionSourceFile  = "file"
)

// 转换状态
const (
	ConversionStatusSuccess = 1
	ConversionStatusFailed  = 2
)

// Conversion 转换记录，只保存元数据，不保存文档内容
type Conversion struct {
	BaseModel
	Source       string `json:"source" gorm:"size:16;index;comment:来源 text/pages/file"`
	Format       string `json:"format" gorm:"size:16;comment:源格式"`
	FileName     string `json:"fileName,omitempty" gorm:"size:255;comment:上传文件名"`
	OutputName   string `json:"outputName,omitempty" gorm:"size:255;comment:输出文件名"`
	InputBytes   int64  `json:"inputBytes" gorm:"comment:输入字节数"`
	OutputBytes  int64  `json:"outputBytes" gorm:"comment:输出字节数"`
	WordCount    int    `json:"wordCount" gorm:"comment:处理的单词数"`
	Paragraphs   int    `json:"paragraphs" gorm:"comment:段落数"`
	Truncated    bool   `json:"truncated" gorm:"comment:是否截断"`
	Cached       bool   `json:"cached" gorm:"comment:是否命中缓存"`
	Status       int    `json:"status" gorm:"index;comment:状态 1成功 2失败"`
	ErrorMessage string `json:"errorMessage,omitempty" gorm:"size:500;comment:错误信息"`
	DurationMs   int64  `json:"durationMs" gorm:"comment:耗时毫秒"`
	ClientID     string `json:"clientId,omitempty" gorm:"size:64;index;comment:调用方"`
	RequestID    string `json:"requestId,omitempty" gorm:"size:64;comment:请求ID"`
}

func (c *Conversion) TableComment() string {
	return "转换记录表"
}

// BeforeCreate 创建前钩子
func (c *Conversion) BeforeCreate(tx *gorm.DB) error {
	if c.ID == 0 {
		c.ID = util.NewID()
	}
	return nil
}

func init() {
	models = append(models, &Conversion{})
}
