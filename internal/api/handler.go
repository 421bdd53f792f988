package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/notes-bin/artbed/internal/ai"
	"github.com/notes-bin/artbed/internal/auth"
	"github.com/notes-bin/artbed/internal/config"
	"github.com/notes-bin/artbed/internal/model"
	"github.com/notes-bin/artbed/internal/pipeline"
	"github.com/notes-bin/artbed/internal/redis"
	"github.com/notes-bin/artbed/internal/storage"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	config   *config.Config
	auth     *auth.Auth
	redis    *redis.Client
	storage  *storage.Storage
	pipeline *pipeline.Pipeline
}

func NewHandler(config *config.Config, auth *auth.Auth, redis *redis.Client, storage *storage.Storage, pipeline *pipeline.Pipeline) *Handler {
	return &Handler{config: config, auth: auth, redis: redis, storage: storage, pipeline: pipeline}
}

func SetupRouter(config *config.Config, redis *redis.Client, storage *storage.Storage, pipe *pipeline.Pipeline) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(RateLimitMiddleware(config.RateLimit.Requests, config.RateLimit.Duration))

	authService := auth.NewAuth(config.JWTSecret, redis)
	h := NewHandler(config, authService, redis, storage, pipe)

	// 公共路由
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)

	// 需要认证的路由
	r.Group(func(r chi.Router) {
		r.Use(h.AuthMiddleware)
		r.Post("/artworks", h.CreateArtwork)
		r.Get("/artworks/my", h.MyGallery)
		r.Put("/artworks/{id}", h.EditArtwork)
		r.Delete("/artworks/{id}", h.DeleteArtwork)
		r.Post("/artworks/{id}/curation", h.CurateArtwork)
		r.Post("/refresh-token", h.RefreshToken)
	})

	// 作品访问（支持公有和私有）
	r.Group(func(r chi.Router) {
		r.Use(h.OptionalAuthMiddleware)
		r.Get("/artworks/public", h.PublicGallery)
		r.Get("/artworks/{id}", h.GetArtwork)
	})

	// 热门标签与持久图片
	r.Get("/tags/top", h.TopTags)
	r.Get("/blobs/{name}", h.ServeBlob)

	return r
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	user, err := h.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to register")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "User registered", "user_id": user.ID})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username  string `json:"username"`
		Password  string `json:"password"`
		ExpiresIn int    `json:"expires_in"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	expiresIn := time.Duration(req.ExpiresIn) * time.Second
	if expiresIn == 0 {
		expiresIn = 24 * time.Hour
	}
	token, err := h.auth.Login(r.Context(), req.Username, req.Password, expiresIn)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ExpiresIn int `json:"expires_in"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	userID := r.Context().Value("user_id").(string)
	username := r.Context().Value("username").(string)
	isAdmin := r.Context().Value("is_admin").(bool)
	expiresIn := time.Duration(req.ExpiresIn) * time.Second
	if expiresIn == 0 {
		expiresIn = 24 * time.Hour
	}
	token, err := h.auth.GenerateToken(userID, username, isAdmin, expiresIn)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to refresh token")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// CreateArtwork 执行完整生成流水线并创建作品记录。
// 持久化成功是提交点:之前任何失败都不会留下作品记录。
func (h *Handler) CreateArtwork(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Idea     string `json:"idea"`
		Title    string `json:"title"`
		Content  string `json:"content"`
		IsPublic bool   `json:"is_public"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	userID := r.Context().Value("user_id").(string)
	gen, err := h.pipeline.Generate(r.Context(), req.Idea, userID)
	if err != nil {
		respondPipelineError(w, err)
		return
	}

	// 标注失败不阻塞创建,作品照常落库,只是没有描述和标签
	ann := h.pipeline.Annotate(r.Context(), gen.DurableURL)

	title := req.Title
	if title == "" {
		title = req.Idea
	}
	art := &model.Artwork{
		ID:              uuid.NewString(),
		UserID:          userID,
		Title:           title,
		Content:         req.Content,
		ImageURL:        gen.DurableURL,
		GeneratedPrompt: gen.GeneratedPrompt,
		Caption:         ann.Caption,
		Tags:            ann.Tags,
		IsPublic:        req.IsPublic,
		CreatedAt:       time.Now(),
	}
	if err := h.redis.SaveArtwork(r.Context(), art); err != nil {
		h.storage.Delete(storage.BlobNameFromURL(gen.DurableURL))
		respondError(w, http.StatusInternalServerError, "Failed to save artwork")
		return
	}

	if len(ann.Tags) > 0 {
		if err := h.pipeline.RecordArtworkTags(r.Context(), ann.Tags); err != nil {
			slog.Error("Failed to record tags", "artwork_id", art.ID, "error", err)
		}
	}

	respondJSON(w, http.StatusOK, art)
}

func (h *Handler) GetArtwork(w http.ResponseWriter, r *http.Request) {
	artworkID := chi.URLParam(r, "id")
	art, err := h.redis.GetArtwork(r.Context(), artworkID)
	if err != nil || art == nil {
		respondError(w, http.StatusNotFound, "Artwork not found")
		return
	}

	if !art.IsPublic {
		userID := r.Context().Value("user_id")
		if userID == nil || userID.(string) != art.UserID {
			respondError(w, http.StatusForbidden, "Private artwork")
			return
		}
	}

	// 增加访问计数
	if err := h.redis.IncrementView(r.Context(), artworkID); err != nil {
		slog.Error("Failed to increment view", "artwork_id", artworkID, "error", err)
	}

	respondJSON(w, http.StatusOK, art)
}

// EditArtwork 只允许修改文本和可见性,图片在创建后不可变。
func (h *Handler) EditArtwork(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title    *string `json:"title"`
		Content  *string `json:"content"`
		IsPublic *bool   `json:"is_public"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	artworkID := chi.URLParam(r, "id")
	art, err := h.redis.GetArtwork(r.Context(), artworkID)
	if err != nil || art == nil {
		respondError(w, http.StatusNotFound, "Artwork not found")
		return
	}

	userID := r.Context().Value("user_id").(string)
	if art.UserID != userID {
		respondError(w, http.StatusForbidden, "Unauthorized")
		return
	}

	if req.Title != nil {
		art.Title = *req.Title
	}
	if req.Content != nil {
		art.Content = *req.Content
	}
	if req.IsPublic != nil {
		art.IsPublic = *req.IsPublic
	}
	if err := h.redis.SaveArtwork(r.Context(), art); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update artwork")
		return
	}
	respondJSON(w, http.StatusOK, art)
}

func (h *Handler) DeleteArtwork(w http.ResponseWriter, r *http.Request) {
	artworkID := chi.URLParam(r, "id")
	art, err := h.redis.GetArtwork(r.Context(), artworkID)
	if err != nil || art == nil {
		respondError(w, http.StatusNotFound, "Artwork not found")
		return
	}

	userID := r.Context().Value("user_id").(string)
	isAdmin := r.Context().Value("is_admin").(bool)
	if art.UserID != userID && !isAdmin {
		respondError(w, http.StatusForbidden, "Unauthorized")
		return
	}

	// 先删 blob;删除失败只记日志,宁可泄漏存储也不卡住记录删除
	if art.ImageURL != "" {
		if err := h.storage.Delete(storage.BlobNameFromURL(art.ImageURL)); err != nil {
			slog.Error("Failed to delete blob", "artwork_id", artworkID, "error", err)
		}
	}
	if err := h.redis.DeleteArtwork(r.Context(), art); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete artwork")
		return
	}
	if len(art.Tags) > 0 {
		if err := h.pipeline.ReleaseArtworkTags(r.Context(), art.Tags); err != nil {
			slog.Error("Failed to release tags", "artwork_id", artworkID, "error", err)
		}
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Artwork deleted"})
}

// CurateArtwork 针对已有作品生成一段策展文本,不持久化,每次重新计算。
func (h *Handler) CurateArtwork(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Style string `json:"style"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	artworkID := chi.URLParam(r, "id")
	art, err := h.redis.GetArtwork(r.Context(), artworkID)
	if err != nil || art == nil {
		respondError(w, http.StatusNotFound, "Artwork not found")
		return
	}

	userID := r.Context().Value("user_id").(string)
	isAdmin := r.Context().Value("is_admin").(bool)
	if !art.IsPublic && art.UserID != userID && !isAdmin {
		respondError(w, http.StatusForbidden, "Private artwork")
		return
	}

	// 软失败也走 200,文本本身就是要展示的内容
	style, _ := ai.ParseStyle(req.Style)
	result := h.pipeline.Curate(r.Context(), style, art.GeneratedPrompt, art.Caption, art.Tags)
	respondJSON(w, http.StatusOK, map[string]any{
		"style":       result.Style,
		"text":        result.Text,
		"unavailable": result.Err != nil,
	})
}

func (h *Handler) MyGallery(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)
	artworks, err := h.redis.ListUserArtworks(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list artworks")
		return
	}
	respondJSON(w, http.StatusOK, artworks)
}

func (h *Handler) PublicGallery(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit == 0 {
		limit = 10
	}
	artworks, err := h.redis.ListPublicArtworks(r.Context(), offset, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list artworks")
		return
	}
	respondJSON(w, http.StatusOK, artworks)
}

func (h *Handler) TopTags(w http.ResponseWriter, r *http.Request) {
	n, _ := strconv.Atoi(r.URL.Query().Get("n"))
	if n == 0 {
		n = h.config.TopTags.Limit
	}

	// 优先读缓存快照,未命中再实时计算
	counts, err := h.redis.GetCachedTopTags(r.Context())
	if err != nil || counts == nil {
		counts, err = h.redis.TopTags(r.Context(), n)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to list tags")
			return
		}
	}
	if len(counts) > n {
		counts = counts[:n]
	}
	respondJSON(w, http.StatusOK, counts)
}

func (h *Handler) ServeBlob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	http.ServeFile(w, r, h.storage.FilePath(name))
}

// respondPipelineError 把流水线错误分类映射到 HTTP 状态:
// 限流可重试、输入错误归调用方、其余都是上游或存储故障。
func respondPipelineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ai.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ai.ErrRateLimitExceeded):
		respondError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, ai.ErrPromptGeneration), errors.Is(err, ai.ErrImageGeneration):
		respondError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, storage.ErrPersistence):
		respondError(w, http.StatusBadGateway, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	slog.Error("Request failed", "status", status, "message", message)
	respondJSON(w, status, map[string]string{"error": message})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
