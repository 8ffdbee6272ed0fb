package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/creser-psicologia/creser-api/internal/httperr"
	"github.com/creser-psicologia/creser-api/internal/httpresp"
	"github.com/creser-psicologia/creser-api/internal/middleware"
	"github.com/creser-psicologia/creser-api/internal/models"
	"github.com/creser-psicologia/creser-api/internal/timezone"
)

type NewsHandler struct {
	db *gorm.DB
	tz string
}

func NewNewsHandler(db *gorm.DB, tz string) *NewsHandler {
	return &NewsHandler{db: db, tz: tz}
}

// --------- Requests ---------

type CreateNewsRequest struct {
	Title           string `json:"title" binding:"required"`
	Summary         string `json:"summary" binding:"required"`
	Content         string `json:"content" binding:"required"`
	CoverImage      string `json:"cover_image"`
	Category        string `json:"category" binding:"required"`
	Tags            string `json:"tags"`
	MetaDescription string `json:"meta_description"`
	Featured        bool   `json:"featured"`
}

type UpdateNewsRequest struct {
	Title           *string `json:"title"`
	Summary         *string `json:"summary"`
	Content         *string `json:"content"`
	CoverImage      *string `json:"cover_image"`
	Category        *string `json:"category"`
	Tags            *string `json:"tags"`
	MetaDescription *string `json:"meta_description"`
	Featured        *bool   `json:"featured"`
}

// --------- Public ---------

func (h *NewsHandler) List(c *gin.Context) {
	q := h.db.Model(&models.NewsArticle{}).Where("status = ?", "published")

	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}
	if search := c.Query("search"); search != "" {
		term := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(summary) LIKE ? OR LOWER(tags) LIKE ?", term, term, term)
	}

	var total int64
	q.Count(&total)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))
	if perPage < 1 || perPage > 50 {
		perPage = 10
	}

	var articles []models.NewsArticle
	if err := q.Order("published_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&articles).Error; err != nil {
		httperr.Internal(c, "failed_to_list_news", "Error interno.")
		return
	}

	httpresp.OK(c, gin.H{
		"data":     articles,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

func (h *NewsHandler) Featured(c *gin.Context) {
	var articles []models.NewsArticle
	if err := h.db.Where("status = ? AND featured = ?", "published", true).
		Order("published_at DESC").
		Limit(5).
		Find(&articles).Error; err != nil {
		httperr.Internal(c, "failed_to_list_news", "Error interno.")
		return
	}

	httpresp.List(c, articles)
}

// GetBySlug serves the public article page and counts the view.
func (h *NewsHandler) GetBySlug(c *gin.Context) {
	slug := c.Param("slug")

	var article models.NewsArticle
	if err := h.db.Where("slug = ?", slug).First(&article).Error; err != nil {
		respondBusiness(c, httperr.ErrBusiness("news_not_found"))
		return
	}

	if article.Status != "published" {
		respondBusiness(c, httperr.ErrBusiness("news_not_published"))
		return
	}

	h.db.Model(&article).UpdateColumn("views", gorm.Expr("views + 1"))
	article.Views++

	httpresp.OK(c, article)
}

// --------- Admin ---------

func (h *NewsHandler) ListAll(c *gin.Context) {
	q := h.db.Model(&models.NewsArticle{})

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var articles []models.NewsArticle
	if err := q.Order("created_at DESC").Find(&articles).Error; err != nil {
		httperr.Internal(c, "failed_to_list_news", "Error interno.")
		return
	}

	httpresp.List(c, articles)
}

func (h *NewsHandler) Create(c *gin.Context) {
	var req CreateNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	authorID := c.MustGet(middleware.ContextUserID).(uint)

	article := models.NewsArticle{
		Title:           req.Title,
		Slug:            h.uniqueSlug(slugify(req.Title)),
		Summary:         req.Summary,
		Content:         req.Content,
		CoverImage:      req.CoverImage,
		Category:        req.Category,
		Status:          "draft",
		AuthorID:        authorID,
		Tags:            req.Tags,
		MetaDescription: req.MetaDescription,
		Featured:        req.Featured,
	}

	if err := h.db.Create(&article).Error; err != nil {
		httperr.Internal(c, "failed_to_create_news", "Error interno.")
		return
	}

	httpresp.Created(c, article)
}

func (h *NewsHandler) Update(c *gin.Context) {
	article, ok := h.find(c)
	if !ok {
		return
	}

	var req UpdateNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	if req.Title != nil && *req.Title != article.Title {
		article.Title = *req.Title
		article.Slug = h.uniqueSlug(slugify(*req.Title))
	}
	if req.Summary != nil {
		article.Summary = *req.Summary
	}
	if req.Content != nil {
		article.Content = *req.Content
	}
	if req.CoverImage != nil {
		article.CoverImage = *req.CoverImage
	}
	if req.Category != nil {
		article.Category = *req.Category
	}
	if req.Tags != nil {
		article.Tags = *req.Tags
	}
	if req.MetaDescription != nil {
		article.MetaDescription = *req.MetaDescription
	}
	if req.Featured != nil {
		article.Featured = *req.Featured
	}

	if err := h.db.Save(article).Error; err != nil {
		httperr.Internal(c, "failed_to_update_news", "Error interno.")
		return
	}

	httpresp.OK(c, article)
}

func (h *NewsHandler) Publish(c *gin.Context) {
	article, ok := h.find(c)
	if !ok {
		return
	}

	if article.Status == "published" {
		respondBusiness(c, httperr.ErrBusiness("news_already_published"))
		return
	}

	now := timezone.NowIn(h.tz)
	article.Status = "published"
	article.PublishedAt = &now

	if err := h.db.Save(article).Error; err != nil {
		httperr.Internal(c, "failed_to_publish_news", "Error interno.")
		return
	}

	httpresp.OK(c, article)
}

func (h *NewsHandler) Archive(c *gin.Context) {
	article, ok := h.find(c)
	if !ok {
		return
	}

	article.Status = "archived"
	if err := h.db.Save(article).Error; err != nil {
		httperr.Internal(c, "failed_to_archive_news", "Error interno.")
		return
	}

	httpresp.OK(c, article)
}

func (h *NewsHandler) Delete(c *gin.Context) {
	article, ok := h.find(c)
	if !ok {
		return
	}

	if err := h.db.Delete(article).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_news", "Error interno.")
		return
	}

	httpresp.OK(c, gin.H{"message": "Noticia eliminada."})
}

func (h *NewsHandler) Stats(c *gin.Context) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	if err := h.db.Model(&models.NewsArticle{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		httperr.Internal(c, "failed_to_get_stats", "Error interno.")
		return
	}

	byStatus := make(map[string]int64, len(rows))
	var total int64
	for _, r := range rows {
		byStatus[r.Status] = r.Count
		total += r.Count
	}

	var totalViews int64
	h.db.Model(&models.NewsArticle{}).Select("COALESCE(SUM(views), 0)").Scan(&totalViews)

	var topViewed []models.NewsArticle
	h.db.Where("status = ?", "published").
		Order("views DESC").
		Limit(5).
		Find(&topViewed)

	httpresp.OK(c, gin.H{
		"total":       total,
		"by_status":   byStatus,
		"total_views": totalViews,
		"top_viewed":  topViewed,
	})
}

func (h *NewsHandler) find(c *gin.Context) (*models.NewsArticle, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return nil, false
	}

	var article models.NewsArticle
	if err := h.db.First(&article, uint(id)).Error; err != nil {
		respondBusiness(c, httperr.ErrBusiness("news_not_found"))
		return nil, false
	}

	return &article, true
}

// --------- Slugs ---------

var slugReplacer = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
	"Á", "a", "É", "e", "Í", "i", "Ó", "o", "Ú", "u", "Ü", "u", "Ñ", "n",
)

func slugify(title string) string {
	s := slugReplacer.Replace(strings.ToLower(strings.TrimSpace(title)))

	var b strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}

// uniqueSlug appends a numeric suffix until the slug is free.
func (h *NewsHandler) uniqueSlug(base string) string {
	if base == "" {
		base = "noticia"
	}

	slug := base
	for i := 2; ; i++ {
		var count int64
		h.db.Model(&models.NewsArticle{}).Where("slug = ?", slug).Count(&count)
		if count == 0 {
			return slug
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
