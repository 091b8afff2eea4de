package statistics

import (
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/TeamFoxHQ/TeamFox/app/models"
	"github.com/TeamFoxHQ/TeamFox/internal/pkg/cache"
	"github.com/TeamFoxHQ/TeamFox/internal/pkg/database"
)

const (
	CacheKeyUsersTotal  = "statistics:users:total"
	CacheKeyUsersActive = "statistics:users:active"
	CacheKeyDepartments = "statistics:departments:total"
	CacheKeySites       = "statistics:sites:total"
	CacheExpiration     = 30 * time.Minute
)

// StatisticsData holds the portal-wide counters shown on the dashboard.
type StatisticsData struct {
	TotalUsers       int `json:"total_users"`
	ActiveUsersToday int `json:"active_users_today"`
	TotalDepartments int `json:"total_departments"`
	RegisteredSites  int `json:"registered_sites"`
}

var (
	lastCacheUpdate     time.Time
	cacheUpdateMutex    sync.Mutex
	cacheUpdateInterval = 5 * time.Minute
)

// ShouldUpdateCache reports whether the cached counters are older than the
// update interval.
func ShouldUpdateCache() bool {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	return time.Since(lastCacheUpdate) > cacheUpdateInterval
}

// UpdateCacheIfNeeded refreshes the cached counters when they are stale.
func UpdateCacheIfNeeded() {
	if ShouldUpdateCache() {
		cacheUpdateMutex.Lock()
		defer cacheUpdateMutex.Unlock()

		if err := UpdateStatisticsCache(); err != nil {
			log.Printf("[Statistics] cache refresh failed: %v", err)
		} else {
			lastCacheUpdate = time.Now()
		}
	}
}

// ResetCacheUpdateTimer forces the next read to refresh the cache.
func ResetCacheUpdateTimer() {
	cacheUpdateMutex.Lock()
	defer cacheUpdateMutex.Unlock()

	lastCacheUpdate = time.Time{}
}

// UpdateStatisticsCache counts users, departments and registered sites and
// writes the results to the cache.
func UpdateStatisticsCache() error {
	db := database.GetDB()

	var totalUsers int64
	if err := db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		return err
	}

	todayStart := time.Now().Truncate(24 * time.Hour)
	var activeUsers int64
	if err := db.Model(&models.User{}).Where("last_login_at >= ?", todayStart).Count(&activeUsers).Error; err != nil {
		return err
	}

	var totalDepartments int64
	if err := db.Model(&models.Department{}).Count(&totalDepartments).Error; err != nil {
		return err
	}

	var totalSites int64
	if err := db.Model(&models.SharePointSite{}).Count(&totalSites).Error; err != nil {
		return err
	}

	for key, value := range map[string]int64{
		CacheKeyUsersTotal:  totalUsers,
		CacheKeyUsersActive: activeUsers,
		CacheKeyDepartments: totalDepartments,
		CacheKeySites:       totalSites,
	} {
		if err := cache.Set(key, strconv.FormatInt(value, 10), CacheExpiration); err != nil {
			return err
		}
	}

	return nil
}

// cachedCount reads a counter from the cache and falls back to the database
// count function on a miss.
func cachedCount(key string, count func() (int64, error)) int {
	if val, err := cache.Get(key); err == nil {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			return int(n)
		}
	}

	n, err := count()
	if err != nil {
		log.Printf("[Statistics] counting for %s failed: %v", key, err)
		return 0
	}
	if err := cache.Set(key, strconv.FormatInt(n, 10), CacheExpiration); err != nil {
		log.Printf("[Statistics] caching %s failed: %v", key, err)
	}
	return int(n)
}

// GetTotalUsers returns the total user count from cache or database.
func GetTotalUsers() int {
	return cachedCount(CacheKeyUsersTotal, func() (int64, error) {
		var count int64
		err := database.GetDB().Model(&models.User{}).Count(&count).Error
		return count, err
	})
}

// GetActiveUsersToday returns how many users signed in since midnight.
func GetActiveUsersToday() int {
	return cachedCount(CacheKeyUsersActive, func() (int64, error) {
		var count int64
		todayStart := time.Now().Truncate(24 * time.Hour)
		err := database.GetDB().Model(&models.User{}).Where("last_login_at >= ?", todayStart).Count(&count).Error
		return count, err
	})
}

// GetTotalDepartments returns the department count from cache or database.
func GetTotalDepartments() int {
	return cachedCount(CacheKeyDepartments, func() (int64, error) {
		var count int64
		err := database.GetDB().Model(&models.Department{}).Count(&count).Error
		return count, err
	})
}

// GetRegisteredSites returns the registered SharePoint site count.
func GetRegisteredSites() int {
	return cachedCount(CacheKeySites, func() (int64, error) {
		var count int64
		err := database.GetDB().Model(&models.SharePointSite{}).Count(&count).Error
		return count, err
	})
}

// GetStatisticsData returns all dashboard counters, refreshing the cache
// when needed.
func GetStatisticsData() StatisticsData {
	UpdateCacheIfNeeded()

	return StatisticsData{
		TotalUsers:       GetTotalUsers(),
		ActiveUsersToday: GetActiveUsersToday(),
		TotalDepartments: GetTotalDepartments(),
		RegisteredSites:  GetRegisteredSites(),
	}
}
