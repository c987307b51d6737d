package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/edemey4711/MID/database"
	"github.com/edemey4711/MID/models"
	"github.com/edemey4711/MID/services"
)

// ImageResponse mirrors the database record but adds fetchable URLs for the
// stored assets. Both the map and the gallery consume this shape.
type ImageResponse struct {
	models.Image
	OriginalURL  string `json:"original_url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

func toResponse(c *gin.Context, img models.Image) ImageResponse {
	resp := ImageResponse{Image: img}
	ctx := c.Request.Context()

	if u, err := services.Store.URL(ctx, services.PrefixOriginals, img.Filename); err == nil {
		resp.OriginalURL = u
	}
	if img.Thumbnail != nil {
		if u, err := services.Store.URL(ctx, services.PrefixThumbnails, *img.Thumbnail); err == nil {
			resp.ThumbnailURL = u
		}
	}
	return resp
}

// ListImages returns every record, newest first. Optional ?category= filter.
func ListImages(c *gin.Context) {
	query := database.DB.Order("id DESC")
	if category := c.Query("category"); category != "" {
		if !allowedCategories[category] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
			return
		}
		query = query.Where("category = ?", category)
	}

	var images []models.Image
	if err := query.Find(&images).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	response := []ImageResponse{}
	for _, img := range images {
		response = append(response, toResponse(c, img))
	}
	c.JSON(http.StatusOK, gin.H{"images": response, "count": len(response)})
}

// GetImage returns one record by id.
func GetImage(c *gin.Context) {
	var img models.Image
	if err := database.DB.First(&img, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"image": toResponse(c, img)})
}

type UpdateImageInput struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category" binding:"required"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// UpdateImage edits the user-supplied fields and, when both are given, the
// coordinates of a record.
func UpdateImage(c *gin.Context) {
	var input UpdateImageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !allowedCategories[input.Category] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}

	var img models.Image
	if err := database.DB.First(&img, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
		return
	}

	img.Name = input.Name
	img.Description = input.Description
	img.Category = input.Category
	if input.Latitude != nil && input.Longitude != nil {
		lat, lng := *input.Latitude, *input.Longitude
		if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Coordinates out of range"})
			return
		}
		img.Latitude = lat
		img.Longitude = lng
	}

	if err := database.DB.Save(&img).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update image"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Image updated successfully", "image": toResponse(c, img)})
}

// DeleteImage removes the stored files and the record. A nonexistent id is
// a no-op success, not an error.
func DeleteImage(c *gin.Context) {
	var img models.Image
	err := database.DB.First(&img, "id = ?", c.Param("id")).Error
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusOK, gin.H{"message": "Nothing to delete"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	ctx := c.Request.Context()
	if err := services.Store.Remove(ctx, services.PrefixOriginals, img.Filename); err != nil {
		log.WithError(err).WithField("filename", img.Filename).Warn("failed to remove original")
	}
	if img.Thumbnail != nil {
		if err := services.Store.Remove(ctx, services.PrefixThumbnails, *img.Thumbnail); err != nil {
			log.WithError(err).WithField("filename", *img.Thumbnail).Warn("failed to remove thumbnail")
		}
	}

	if err := database.DB.Delete(&img).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete image"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Image deleted successfully"})
}
