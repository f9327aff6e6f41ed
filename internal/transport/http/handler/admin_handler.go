package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shortlink-admin/internal/core/auth"
	"shortlink-admin/internal/domain"
	"shortlink-admin/internal/service"
	httpez "shortlink-admin/internal/transport/http/ez"
	"shortlink-admin/pkg/utils"
)

// 表单里的 action 取值（沿用旧面板的 AJAX 协议）
const (
	actionUpdateBalance = "update_balance"
	actionUpdateStatus  = "update_status"
	actionDeleteUser    = "delete_user"
)

type AdminHandler struct {
	users *service.UserService
	stats *service.StatsService
	jwter *auth.JWTer

	operatorName string
	operatorHash string // bcrypt
}

func NewAdminHandler(users *service.UserService, stats *service.StatsService, jwter *auth.JWTer, operatorName, operatorHash string) *AdminHandler {
	return &AdminHandler{
		users:        users,
		stats:        stats,
		jwter:        jwter,
		operatorName: operatorName,
		operatorHash: operatorHash,
	}
}

// MountPublic 公共接口（登录）
func (h *AdminHandler) MountPublic(g *gin.RouterGroup) {
	ezPub := httpez.New(g)

	type loginIn struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	type loginOut struct {
		Token string `json:"token"`
	}
	httpez.RegisterAction[loginIn, loginOut](ezPub, httpez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (loginOut, error) {
			if in.Username != h.operatorName || !utils.CheckPassword(in.Password, h.operatorHash) {
				return loginOut{}, httpez.Unauthorized("invalid credentials")
			}
			tok, err := h.jwter.Issue(in.Username, "admin")
			if err != nil || tok == "" {
				return loginOut{}, httpez.Internal("issue token failed", err)
			}
			return loginOut{Token: tok}, nil
		},
	})
}

// MountAdmin 管理端接口（分组已走 AuthJWT("admin")）
func (h *AdminHandler) MountAdmin(g *gin.RouterGroup) {
	ezAdmin := httpez.New(g)

	// --- GET /admin/v1/stats 总览 ---
	httpez.RegisterAction[struct{}, *domain.Overview](ezAdmin, httpez.Action[struct{}, *domain.Overview]{
		Method: http.MethodGet,
		Path:   "/stats",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Overview, error) {
			return h.stats.Overview(c.Request.Context())
		},
	})

	// --- GET /admin/v1/dashboard 总览 + 最近动态 ---
	type dashOut struct {
		Stats  *domain.Overview `json:"stats"`
		Recent *domain.Recent   `json:"recent"`
	}
	httpez.RegisterAction[struct{}, dashOut](ezAdmin, httpez.Action[struct{}, dashOut]{
		Method: http.MethodGet,
		Path:   "/dashboard",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (dashOut, error) {
			ctx := c.Request.Context()
			stats, err := h.stats.Overview(ctx)
			if err != nil {
				return dashOut{}, httpez.Internal("load stats failed", err)
			}
			recent, err := h.stats.Recent(ctx)
			if err != nil {
				return dashOut{}, httpez.Internal("load recent failed", err)
			}
			return dashOut{Stats: stats, Recent: recent}, nil
		},
	})

	// --- GET /admin/v1/users 用户列表 ---
	type listQ struct {
		Page   int    `form:"page,default=1"`
		Search string `form:"search"` // 按 username / telegram_id 模糊搜
		Status string `form:"status"`
	}
	type listOut struct {
		Total      int64            `json:"total"`
		TotalPages int64            `json:"totalPages"`
		Page       int              `json:"page"`
		Size       int              `json:"size"`
		Items      []domain.UserRow `json:"items"`
	}
	httpez.RegisterAction[listQ, listOut](ezAdmin, httpez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *listQ) (listOut, error) {
			if in.Page < 1 {
				in.Page = 1
			}
			rows, total, err := h.users.List(c.Request.Context(), in.Search, in.Status, in.Page)
			if err != nil {
				return listOut{}, httpez.Internal("list users failed", err)
			}
			size := h.users.PageSize()
			return listOut{
				Total:      total,
				TotalPages: int64(math.Ceil(float64(total) / float64(size))),
				Page:       in.Page,
				Size:       size,
				Items:      rows,
			}, nil
		},
	})

	// --- GET /admin/v1/users/:id 单个用户（编辑弹窗回显用） ---
	httpez.RegisterAction[struct{}, *domain.User](ezAdmin, httpez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			id, err := strconv.ParseInt(c.Param("id"), 10, 64)
			if err != nil || id <= 0 {
				return nil, httpez.BadRequest("bad user id")
			}
			return h.users.Get(c.Request.Context(), id)
		},
	})

	// --- POST /admin/v1/users/action 余额 / 状态 / 删号 ---
	// NotFound 走 success=false 的业务结果而不是错误壳，前端只认这个字段
	type actionIn struct {
		UserID    int64    `json:"user_id" binding:"required"`
		Action    string   `json:"action" binding:"required"`
		Amount    *float64 `json:"amount"`
		Operation string   `json:"operation"`
		Status    string   `json:"status"`
	}
	type actionOut struct {
		Success    bool     `json:"success"`
		NewBalance *float64 `json:"new_balance,omitempty"`
		Message    string   `json:"message,omitempty"`
	}
	httpez.RegisterAction[actionIn, actionOut](ezAdmin, httpez.Action[actionIn, actionOut]{
		Method: http.MethodPost,
		Path:   "/users/action",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *actionIn) (actionOut, error) {
			ctx := c.Request.Context()
			var err error
			out := actionOut{Success: true}

			switch in.Action {
			case actionUpdateBalance:
				if in.Amount == nil {
					return actionOut{}, httpez.BadRequest("missing amount")
				}
				var nb float64
				nb, err = h.users.AdjustBalance(ctx, in.UserID, *in.Amount, in.Operation)
				if err == nil {
					out.NewBalance = &nb
				}
			case actionUpdateStatus:
				err = h.users.UpdateStatus(ctx, in.UserID, in.Status)
			case actionDeleteUser:
				err = h.users.Delete(ctx, in.UserID)
			default:
				return actionOut{}, httpez.BadRequest("unknown action: " + in.Action)
			}

			switch {
			case err == nil:
				h.stats.InvalidateOverview(ctx)
				return out, nil
			case errors.Is(err, domain.ErrNotFound):
				return actionOut{Success: false, Message: "User not found"}, nil
			case errors.Is(err, domain.ErrInvalidArgument):
				return actionOut{}, httpez.BadRequest(err.Error())
			default:
				return actionOut{}, httpez.Internal("user action failed", err)
			}
		},
	})

	// --- POST /admin/v1/payments/:id/review 充值审核 ---
	type reviewIn struct {
		Verdict string `json:"verdict" binding:"required"` // approve / reject
	}
	httpez.RegisterAction[reviewIn, gin.H](ezAdmin, httpez.Action[reviewIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/payments/:id/review",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *reviewIn) (gin.H, error) {
			id, err := strconv.ParseInt(c.Param("id"), 10, 64)
			if err != nil || id <= 0 {
				return nil, httpez.BadRequest("bad payment id")
			}
			if err := h.users.ReviewPayment(c.Request.Context(), id, in.Verdict); err != nil {
				return nil, err // domain 错误由 ez 统一映射
			}
			h.stats.InvalidateOverview(c.Request.Context())
			return gin.H{"id": id, "verdict": in.Verdict}, nil
		},
	})
}
