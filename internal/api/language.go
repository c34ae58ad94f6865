package api

import (
	"barefoot/internal/entity"
	"barefoot/internal/i18n"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const languageContextKey = "request-language"

// LanguageMiddleware 解析请求语言（?lang 优先，其次 Accept-Language）
func (h *HTTPHandler) LanguageMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tag := i18n.ResolveTag(c.Request, h.defaultLang)
		c.Set(languageContextKey, tag)
		c.Header("Content-Language", tag.String())
		c.Next()
	}
}

func (h *HTTPHandler) language(c *gin.Context) language.Tag {
	if value, ok := c.Get(languageContextKey); ok {
		if tag, ok := value.(language.Tag); ok {
			return tag
		}
	}
	return i18n.ResolveTag(c.Request, h.defaultLang)
}

func (h *HTTPHandler) translate(c *gin.Context, key string, args ...any) string {
	return i18n.Translate(h.language(c), key, args...)
}

// respond 返回标准响应，消息按请求语言翻译
func (h *HTTPHandler) respond(c *gin.Context, status int, key string, data any) {
	c.JSON(status, entity.Response{
		Code: status,
		Msg:  h.translate(c, key),
		Data: data,
		Time: time.Now(),
	})
}

// respondItems 返回带分页信息的标准响应
func (h *HTTPHandler) respondItems(c *gin.Context, status int, key string, data any, meta *entity.Meta) {
	c.JSON(status, entity.ResponseItems{
		Code: status,
		Msg:  h.translate(c, key),
		Data: data,
		Meta: meta,
		Time: time.Now(),
	})
}
