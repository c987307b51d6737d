package controllers

import (
	"bytes"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/edemey4711/MID/database"
	"github.com/edemey4711/MID/exifdata"
	"github.com/edemey4711/MID/models"
	"github.com/edemey4711/MID/services"
)

// Fallback map position (country centroid) used when an upload carries no
// usable GPS metadata, so every record stays renderable on the map.
const (
	defaultLatitude  = 51.1657
	defaultLongitude = 10.4515
)

// allowedCategories is the closed set of landmark categories.
var allowedCategories = map[string]bool{
	"Burg":     true,
	"Fels":     true,
	"Kirche":   true,
	"Aussicht": true,
}

// thumbnailOrientation picks the rotation to apply when generating the
// thumbnail. Transcoded containers are stored with their pixels already
// upright while the carried-over EXIF block still holds the original
// orientation flag, so that flag must not be applied a second time.
func thumbnailOrientation(md exifdata.Metadata, transcoded bool) int {
	if transcoded {
		return 1
	}
	return exifdata.Orientation(md)
}

// UploadImage runs the upload pipeline: validate the form, normalize the
// container, persist the original, extract geodata and capture time from
// the stored bytes, generate a thumbnail, insert the record. Metadata and
// thumbnail failures degrade silently; decode and storage failures abort.
func UploadImage(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}
	description := c.PostForm("description")

	category := c.PostForm("category")
	if !allowedCategories[category] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
		return
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Filename)), ".")
	if !services.AllowedExtension(ext) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not open uploaded file"})
		return
	}
	raw, err := io.ReadAll(src)
	src.Close()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file"})
		return
	}

	norm, err := services.NormalizeContainer(raw, file.Filename)
	if err != nil {
		log.WithError(err).WithField("filename", file.Filename).Warn("upload rejected, container not decodable")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not decode image"})
		return
	}

	ctx := c.Request.Context()
	if err := services.Store.Put(ctx, services.PrefixOriginals, norm.Filename, bytes.NewReader(norm.Data), int64(len(norm.Data)), norm.ContentType); err != nil {
		log.WithError(err).Error("failed to store original")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
		return
	}

	// re-open the persisted file so the analyzed bytes are the stored bytes
	md := exifdata.Metadata{}
	if rc, err := services.Store.Get(ctx, services.PrefixOriginals, norm.Filename); err == nil {
		md = exifdata.Extract(rc)
		rc.Close()
	} else {
		log.WithError(err).Warn("could not reopen stored original for metadata")
	}

	lat, lng := defaultLatitude, defaultLongitude
	if loc, ok := exifdata.Location(md); ok {
		lat, lng = loc.Lat, loc.Lng
	}

	var captureDate, captureTime *string
	if ct, ok := exifdata.CaptureTimestamp(md); ok {
		captureDate, captureTime = &ct.Date, &ct.Time
	}

	var thumbnail *string
	thumbBytes, err := services.Thumbnail(bytes.NewReader(norm.Data), services.ThumbnailBound, thumbnailOrientation(md, norm.Transcoded))
	if err != nil {
		log.WithError(err).WithField("filename", norm.Filename).Warn("thumbnail generation failed")
	} else {
		tn := services.ThumbnailName(norm.Filename)
		if err := services.Store.Put(ctx, services.PrefixThumbnails, tn, bytes.NewReader(thumbBytes), int64(len(thumbBytes)), "image/jpeg"); err != nil {
			log.WithError(err).Warn("failed to store thumbnail")
		} else {
			thumbnail = &tn
		}
	}

	now := time.Now()
	img := models.Image{
		Name:        name,
		Description: description,
		Category:    category,
		Filename:    norm.Filename,
		Thumbnail:   thumbnail,
		Latitude:    lat,
		Longitude:   lng,
		UploadDate:  now.Format("2006-01-02"),
		UploadTime:  now.Format("15:04:05"),
		CaptureDate: captureDate,
		CaptureTime: captureTime,
	}
	if err := database.DB.Create(&img).Error; err != nil {
		log.WithError(err).Error("failed to insert image record")
		// best effort: do not leave orphaned files behind
		_ = services.Store.Remove(ctx, services.PrefixOriginals, norm.Filename)
		if thumbnail != nil {
			_ = services.Store.Remove(ctx, services.PrefixThumbnails, *thumbnail)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
		return
	}

	log.WithFields(log.Fields{
		"id":       img.ID,
		"filename": img.Filename,
		"category": img.Category,
		"lat":      img.Latitude,
		"lng":      img.Longitude,
	}).Info("image uploaded")

	c.JSON(http.StatusCreated, gin.H{"message": "Image uploaded successfully", "image": img})
}
