package public

import (
	"strings"

	"github.com/shopnext/internal/constants"
	handlershared "github.com/shopnext/internal/http/handlers/shared"
	"github.com/shopnext/internal/http/response"
	"github.com/shopnext/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "user_id")
}

// optionalUserID 读取可选的登录用户，未登录返回 0。
func optionalUserID(c *gin.Context) uint {
	value, exists := c.Get("user_id")
	if !exists {
		return 0
	}
	if id, ok := value.(uint); ok {
		return id
	}
	return 0
}

// cartIdentity 解析购物车归属：登录用户优先，否则使用 X-Session-Id 匿名会话。
// 请求未携带会话 ID 时生成一个并通过响应头返回，由前端后续携带。
func cartIdentity(c *gin.Context) (service.CartIdentity, bool) {
	if userID := optionalUserID(c); userID != 0 {
		return service.CartIdentity{UserID: userID}, true
	}
	sessionID := strings.TrimSpace(c.GetHeader(constants.CartSessionHeader))
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if len(sessionID) > 64 {
		respondError(c, response.CodeBadRequest, "invalid session id", nil)
		return service.CartIdentity{}, false
	}
	c.Header(constants.CartSessionHeader, sessionID)
	return service.CartIdentity{SessionID: sessionID}, true
}
